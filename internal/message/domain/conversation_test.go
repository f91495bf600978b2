package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// 測試 key 對稱性: resolve(A,B) == resolve(B,A)
func TestResolveConversationKey_Symmetry(t *testing.T) {
	keyAB, err := ResolveConversationKey("user-a", "user-b")
	assert.NoError(t, err)

	keyBA, err := ResolveConversationKey("user-b", "user-a")
	assert.NoError(t, err)

	assert.Equal(t, keyAB, keyBA)
	assert.Equal(t, "user-a:user-b", keyAB)
}

// 測試非法輸入
func TestResolveConversationKey_Invalid(t *testing.T) {
	_, err := ResolveConversationKey("", "user-b")
	assert.Error(t, err)

	_, err = ResolveConversationKey("user-a", "")
	assert.Error(t, err)

	// id 不可包含保留分隔符
	_, err = ResolveConversationKey("user:a", "user-b")
	assert.Error(t, err)

	// 不可與自己開會話
	_, err = ResolveConversationKey("user-a", "user-a")
	assert.Error(t, err)
}

// 測試找出另一方
func TestOtherParticipant(t *testing.T) {
	participants := []string{"s1", "m1"}

	assert.Equal(t, "m1", OtherParticipant(participants, "s1"))
	assert.Equal(t, "s1", OtherParticipant(participants, "m1"))

	assert.True(t, IsParticipant(participants, "s1"))
	assert.False(t, IsParticipant(participants, "s2"))
}
