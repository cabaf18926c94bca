package essentials

import (
	"context"
	"regexp"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/qqessentials/go-qqessentials/internal/msg"
	"github.com/qqessentials/go-qqessentials/pkg/onebot"
	"github.com/qqessentials/go-qqessentials/plugin"
)

const flagLabel = "🔑 Flag"

// flagPatterns 按顺序尝试, 第一个匹配的规则决定 flag
var flagPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)🔑\s*Flag[：:]\s*([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`(?i)\bflag\s*[：:=]\s*([a-zA-Z0-9_-]+)`),
}

var flagToken = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func validFlag(flag string) bool {
	return flagToken.MatchString(flag)
}

// ExtractFlag 从被引用消息的文本中提取加群请求的 flag
func ExtractFlag(text string) (string, bool) {
	for _, p := range flagPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return m[1], true
		}
	}
	return "", false
}

func (s *Essentials) handleApprove(ctx context.Context, cmd *plugin.Command) {
	s.resolve(ctx, cmd.Event, true, "")
}

func (s *Essentials) handleReject(ctx context.Context, cmd *plugin.Command) {
	s.resolve(ctx, cmd.Event, false, cmd.Args)
}

// resolve 同意或拒绝被引用的推送消息中的加群请求
//
// 非目标群, 未引用消息, 无权限或无法取得 flag 时不做任何回复
func (s *Essentials) resolve(ctx context.Context, e *onebot.MessageEvent, approve bool, reason string) {
	if !e.IsGroup() || !s.isTarget(e.GroupID) {
		return
	}
	replyID, ok := e.ReplyID()
	if !ok {
		log.Debugf("群 %v 用户 %v 的命令没有引用消息, 忽略", e.GroupID, e.UserID)
		return
	}
	if !s.IsAuthorized(ctx, e.GroupID, e.UserID) {
		log.Infof("群 %v 用户 %v 无权处理加群请求, 忽略", e.GroupID, e.UserID)
		return
	}
	text, err := s.quotedText(ctx, e, replyID)
	if err != nil {
		log.Warnf("获取被引用的消息 %v 失败: %v", replyID, err)
		return
	}
	flag, ok := ExtractFlag(text)
	if !ok {
		log.Debugf("被引用的消息 %v 中没有加群请求 flag, 忽略", replyID)
		return
	}

	action := "同意"
	if !approve {
		action = "拒绝"
	}
	if err = s.gw.SetGroupAddRequest(ctx, flag, approve, reason); err != nil {
		log.Errorf("%s加群请求失败, flag: %v, 操作者: %v: %v", action, flag, e.UserID, err)
		s.reply(ctx, e, "❌ "+action+"加群请求失败："+errors.Cause(err).Error())
		return
	}
	log.Infof("%s加群请求成功, flag: %v, 理由: %v, 操作者: %v", action, flag, reason, e.UserID)
	text = "✅ 已" + action + "加群请求"
	if !approve && reason != "" {
		text += "\n💬 拒绝理由：" + reason
	}
	s.reply(ctx, e, text)
}

// quotedText 优先使用引用消息段自带的文本, 否则通过 get_msg 获取
func (s *Essentials) quotedText(ctx context.Context, e *onebot.MessageEvent, replyID int64) (string, error) {
	if reply, ok := msg.Find(e.Message, msg.TypeReply); ok {
		if text := reply.Get("text"); text != "" {
			return text, nil
		}
	}
	m, err := s.gw.GetMessage(ctx, replyID)
	if err != nil {
		return "", err
	}
	return m.Text(), nil
}

func (s *Essentials) reply(ctx context.Context, e *onebot.MessageEvent, text string) {
	if _, err := s.gw.Send(ctx, e, text); err != nil {
		log.Errorf("回复群 %v 失败: %v", e.GroupID, err)
	}
}
