package domain

import (
	"sort"
	"strings"

	"prepconnect_service/pkg"
	errprocess "prepconnect_service/pkg/err"
)

// KeySeparator 不允許出現在 participant id 內
const KeySeparator = ":"

// ResolveConversationKey 由兩個 participant id 推導出順序無關的會話 key
// key(A,B) == key(B,A), 不需要事先註冊即可由任一方算出
func ResolveConversationKey(idA, idB string) (string, error) {
	if idA == "" || idB == "" {
		return "", errprocess.InvalidArgument("participant ids are required")
	}
	if strings.Contains(idA, KeySeparator) || strings.Contains(idB, KeySeparator) {
		return "", errprocess.InvalidArgument("participant id contains reserved separator")
	}
	if idA == idB {
		return "", errprocess.InvalidArgument("conversation requires two distinct participants")
	}

	ids := []string{idA, idB}
	sort.Strings(ids)
	return strings.Join(ids, KeySeparator), nil
}

// OtherParticipant 找出會話中另一方, 不在會話內回傳空字串
func OtherParticipant(participants []string, userID string) string {
	return pkg.Other(participants, userID)
}

// IsParticipant check userID 是否在會話內
func IsParticipant(participants []string, userID string) bool {
	return pkg.Contains(participants, userID)
}
