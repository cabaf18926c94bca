// Package param provide some util for param parse
package param

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// EnsureBool 判断给定的p是否可表示为合法Bool类型,否则返回defaultVal
//
// 支持的合法类型有
//
// type bool
//
// type gjson.True or gjson.False
//
// type string "true","yes","1" or "false","no","0" (case insensitive)
func EnsureBool(p any, defaultVal bool) bool {
	var str string
	switch v := p.(type) {
	case bool:
		return v
	case gjson.Result:
		switch v.Type { // nolint
		case gjson.True:
			return true
		case gjson.False:
			return false
		case gjson.String:
			str = v.Str
		default:
			return defaultVal
		}
	case string:
		str = v
	}
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "true", "yes", "1":
		return true
	case "false", "no", "0":
		return false
	default:
		return defaultVal
	}
}

// SplitInt64 将以逗号或空白分隔的数字列表解析为 []int64, 无法解析的项被忽略
func SplitInt64(s string) []int64 {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	ret := make([]int64, 0, len(fields))
	for _, f := range fields {
		if i, err := strconv.ParseInt(f, 10, 64); err == nil {
			ret = append(ret, i)
		}
	}
	return ret
}

// SetExcludeDefault 在目标值 value 不为默认值 defaultValue 时修改 variable 为 value
func SetExcludeDefault(variable, value, defaultValue any) {
	v := reflect.ValueOf(variable)
	v2 := reflect.ValueOf(value)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return
	}
	v = v.Elem()
	if reflect.DeepEqual(reflect.Indirect(v2).Interface(), defaultValue) {
		return
	}
	if v.Kind() != v2.Kind() {
		return
	}
	v.Set(v2)
}
