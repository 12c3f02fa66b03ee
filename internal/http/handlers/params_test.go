package handlers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/yungbote/recipe-backend/internal/pkg/errors"
)

func TestParseIDList(t *testing.T) {
	ids, err := parseIDList("tags", "3, 1,,2 ")
	require.NoError(t, err)
	assert.Equal(t, []uint64{3, 1, 2}, ids)

	ids, err = parseIDList("tags", "")
	require.NoError(t, err)
	assert.Nil(t, ids)

	_, err = parseIDList("ingredient", "1,abc")
	var verr *domainerrors.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "ingredient")

	_, err = parseIDList("tags", "-1")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidArgument)
}
