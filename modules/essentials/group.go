package essentials

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/qqessentials/go-qqessentials/internal/msg"
	"github.com/qqessentials/go-qqessentials/plugin"
)

const (
	sendUsage   = "格式：/" + CommandSendGroupMessage + " 群号 消息内容"
	sendExample = "例如：/" + CommandSendGroupMessage + " 123456789 你好大家"
)

// handleSendGroupMessage /发送群消息 群号 消息内容
func (s *Essentials) handleSendGroupMessage(ctx context.Context, cmd *plugin.Command) {
	e := cmd.Event
	if cmd.Args == "" {
		s.reply(ctx, e, "请输入群号和消息内容\n"+sendUsage)
		return
	}
	parts := strings.Fields(cmd.Args)
	if len(parts) < 2 {
		s.reply(ctx, e, "❌ 参数不完整\n"+sendUsage+"\n"+sendExample)
		return
	}
	groupID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		s.reply(ctx, e, "❌ 群号必须是数字\n"+sendUsage+"\n"+sendExample)
		return
	}
	content := strings.TrimSpace(strings.TrimPrefix(cmd.Args, parts[0]))
	log.Infof("准备发送群消息到群: %v, 内容: %v", groupID, content)

	id, err := s.gw.SendGroupMessage(ctx, groupID, []msg.Element{msg.Text(content)})
	if err != nil {
		log.Errorf("发送群消息失败: %v", err)
		s.reply(ctx, e, "❌ 发送群消息失败："+errors.Cause(err).Error())
		return
	}
	log.Infof("群消息发送成功, 群号: %v, 消息ID: %v", groupID, id)
	s.reply(ctx, e, "✅ 群消息发送成功\n🏷️ 群号："+strconv.FormatInt(groupID, 10)+
		"\n💬 内容："+content+"\n🆔 消息ID："+strconv.FormatInt(id, 10))
}
