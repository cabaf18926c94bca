package essentials

import (
	"context"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/qqessentials/go-qqessentials/internal/msg"
	"github.com/qqessentials/go-qqessentials/pkg/onebot"
)

const divider = "━━━━━━━━━━━━━━━━"

// FormatNotice 生成加群请求推送消息, Flag 行需要与 ExtractFlag 的规则保持一致
func FormatNotice(ev *onebot.GroupRequestEvent) string {
	sb := strings.Builder{}
	sb.WriteString("📝 加群请求信息\n")
	sb.WriteString(divider + "\n")
	sb.WriteString("👤 申请人：" + strconv.FormatInt(ev.UserID, 10) + "\n")
	sb.WriteString("🏷️ 群号：" + strconv.FormatInt(ev.GroupID, 10) + "\n")
	sb.WriteString(flagLabel + "：" + ev.Flag)
	if ev.Comment != "" {
		sb.WriteString("\n💬 备注：" + ev.Comment)
	}
	sb.WriteString("\n" + divider + "\n")
	sb.WriteString("💡 管理员可引用此消息回复：\n")
	sb.WriteString("   /" + CommandApprove + " 或 /" + CommandReject + " [理由]")
	return sb.String()
}

// Notify 向全部目标群推送加群请求, 返回成功发送的群数量
func (s *Essentials) Notify(ctx context.Context, ev *onebot.GroupRequestEvent) int {
	if ev.RequestType != onebot.RequestTypeGroup ||
		(ev.SubType != onebot.SubTypeAdd && ev.SubType != onebot.SubTypeIgnoreAdd) {
		return 0
	}
	if !s.enabled {
		log.Debugf("加群请求推送未启用, 忽略群 %v 用户 %v 的请求", ev.GroupID, ev.UserID)
		return 0
	}
	if len(s.targets) == 0 {
		log.Warnf("未配置加群请求推送目标群, 忽略群 %v 用户 %v 的请求", ev.GroupID, ev.UserID)
		return 0
	}
	if !validFlag(ev.Flag) {
		log.Warnf("加群请求的 flag %q 含有无法被引用回复识别的字符", ev.Flag)
	}

	notice := []msg.Element{msg.Text(FormatNotice(ev))}
	sent := 0
	for _, target := range s.targets {
		if _, err := s.gw.SendGroupMessage(ctx, target, notice); err != nil {
			log.Errorf("向目标群 %v 推送加群请求信息失败: %v", target, err)
			continue
		}
		sent++
		log.Infof("已向目标群 %v 推送加群请求信息, 申请群: %v, 申请人: %v, flag: %v", target, ev.GroupID, ev.UserID, ev.Flag)
	}
	return sent
}
