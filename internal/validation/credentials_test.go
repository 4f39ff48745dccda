package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dilse/internal/models"
)

func TestValidateNickname(t *testing.T) {
	assert.NoError(t, ValidateNickname("moonlit_echo"))
	assert.NoError(t, ValidateNickname("Quiet-Dreamer-7"))
	assert.NoError(t, ValidateNickname("mia"))
	assert.NoError(t, ValidateNickname("étoile filante"))
	assert.NoError(t, ValidateNickname("夜の手紙"))
	assert.NoError(t, ValidateNickname(strings.Repeat("a", MaxNicknameLen)))

	err := ValidateNickname(strings.Repeat("a", MaxNicknameLen+1))
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("secret123"))
	assert.NoError(t, ValidatePassword("pw1"))
	assert.NoError(t, ValidatePassword(strings.Repeat("p", MaxPasswordLen)))

	assert.Error(t, ValidatePassword(strings.Repeat("p", MaxPasswordLen+1)))
}
