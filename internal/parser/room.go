package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// 连通房："4022-4024" / "A 4022-4024"，两端是两间由门相连的独立公寓
var combinedRoomRe = regexp.MustCompile(`([A-Z]\s)?(\d+)-(\d+)`)

// SplitRooms 拆分连通房号，只返回首尾两间（不展开中间房号）
func SplitRooms(roomID string) []string {
	m := combinedRoomRe.FindStringSubmatch(roomID)
	if m == nil {
		return []string{strings.TrimSpace(roomID)}
	}

	prefix := m[1]
	start, errStart := strconv.Atoi(m[2])
	end, errEnd := strconv.Atoi(m[3])
	if errStart != nil || errEnd != nil {
		return []string{strings.TrimSpace(roomID)}
	}

	return []string{
		strings.TrimSpace(fmt.Sprintf("%s%d", prefix, start)),
		strings.TrimSpace(fmt.Sprintf("%s%d", prefix, end)),
	}
}
