package essentials

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/qqessentials/go-qqessentials/pkg/onebot"
)

// IsAuthorized 超级用户, 或在 groupID 中为管理员/群主的用户
//
// 每次都实时查询群成员信息, 查询失败视为无权限
func (s *Essentials) IsAuthorized(ctx context.Context, groupID, userID int64) bool {
	if s.isSuperUser(userID) {
		return true
	}
	member, err := s.gw.GetGroupMemberInfo(ctx, groupID, userID, true)
	if err != nil {
		log.Errorf("检查群 %v 成员 %v 的管理员权限失败: %v", groupID, userID, err)
		return false
	}
	return member.Role == onebot.RoleAdmin || member.Role == onebot.RoleOwner
}
