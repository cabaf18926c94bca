// Package filter implements the event filter applied to events pushed by the gateway.
//
// 规则文件为 JSON 对象, 语法与 go-cqhttp 的事件过滤器一致:
//
//	{
//	    "post_type": "request",
//	    ".or": [{"sub_type": "add"}, {"sub_type": "ignore.add"}],
//	    "group_id": {".in": [111, 222]}
//	}
package filter

import (
	"os"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Filter 定义了一个事件过滤接口
type Filter interface {
	Eval(payload gjson.Result) bool
}

// Func 函数形式的 Filter
type Func func(payload gjson.Result) bool

// Eval impl Filter
func (f Func) Eval(payload gjson.Result) bool { return f(payload) }

// Load 从规则文件创建过滤器, file 为空时返回 nil
func Load(file string) (Filter, error) {
	if file == "" {
		return nil, nil
	}
	bs, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrap(err, "read filter file")
	}
	if !gjson.ValidBytes(bs) {
		return nil, errors.Errorf("filter file %s is not valid json", file)
	}
	return Generate("and", gjson.ParseBytes(bs))
}

// Generate 根据给定操作符名opName及操作符参数argument创建一个过滤器实例
func Generate(opName string, argument gjson.Result) (Filter, error) {
	switch opName {
	case "not":
		return newNot(argument)
	case "and":
		return newAnd(argument)
	case "or":
		return newOr(argument)
	case "eq":
		operand := argument.String()
		return Func(func(p gjson.Result) bool { return p.String() == operand }), nil
	case "neq":
		operand := argument.String()
		return Func(func(p gjson.Result) bool { return p.String() != operand }), nil
	case "in":
		return newIn(argument)
	case "contains":
		if argument.IsArray() || argument.IsObject() {
			return nil, errors.New("the argument of 'contains' operator must be a string")
		}
		operand := argument.String()
		return Func(func(p gjson.Result) bool { return strings.Contains(p.String(), operand) }), nil
	case "regex":
		if argument.IsArray() || argument.IsObject() {
			return nil, errors.New("the argument of 'regex' operator must be a string")
		}
		re, err := regexp.Compile(argument.String())
		if err != nil {
			return nil, errors.Wrap(err, "compile 'regex' operator")
		}
		return Func(func(p gjson.Result) bool { return re.MatchString(p.String()) }), nil
	default:
		return nil, errors.Errorf("the operator %s is not supported", opName)
	}
}

func newNot(argument gjson.Result) (Filter, error) {
	if !argument.IsObject() {
		return nil, errors.New("the argument of 'not' operator must be an object")
	}
	operand, err := Generate("and", argument)
	if err != nil {
		return nil, err
	}
	return Func(func(p gjson.Result) bool { return !operand.Eval(p) }), nil
}

type operand struct {
	key    string // 为空时作用于整个 payload
	filter Filter
}

func newAnd(argument gjson.Result) (Filter, error) {
	if !argument.IsObject() {
		return nil, errors.New("the argument of 'and' operator must be an object")
	}
	var (
		operands []operand
		err      error
	)
	argument.ForEach(func(key, value gjson.Result) bool {
		var f Filter
		switch {
		case strings.HasPrefix(key.Str, "."):
			f, err = Generate(key.Str[1:], value)
			operands = append(operands, operand{filter: f})
		case value.IsObject():
			f, err = Generate("and", value)
			operands = append(operands, operand{key: key.Str, filter: f})
		default:
			f, err = Generate("eq", value)
			operands = append(operands, operand{key: key.Str, filter: f})
		}
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return Func(func(p gjson.Result) bool {
		for _, op := range operands {
			v := p
			if op.key != "" {
				v = p.Get(op.key)
			}
			if !op.filter.Eval(v) {
				return false
			}
		}
		return true
	}), nil
}

func newOr(argument gjson.Result) (Filter, error) {
	if !argument.IsArray() {
		return nil, errors.New("the argument of 'or' operator must be an array")
	}
	var (
		operands []Filter
		err      error
	)
	argument.ForEach(func(_, value gjson.Result) bool {
		var f Filter
		f, err = Generate("and", value)
		operands = append(operands, f)
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return Func(func(p gjson.Result) bool {
		for _, f := range operands {
			if f.Eval(p) {
				return true
			}
		}
		return false
	}), nil
}

func newIn(argument gjson.Result) (Filter, error) {
	switch {
	case argument.IsObject():
		return nil, errors.New("the argument of 'in' operator must be an array or a string")
	case argument.IsArray():
		set := make(map[string]struct{})
		argument.ForEach(func(_, value gjson.Result) bool {
			set[value.String()] = struct{}{}
			return true
		})
		return Func(func(p gjson.Result) bool {
			_, ok := set[p.String()]
			return ok
		}), nil
	default:
		s := argument.String()
		return Func(func(p gjson.Result) bool { return strings.Contains(s, p.String()) }), nil
	}
}
