package notice

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestPostListDismiss(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	b := NewBoard(zap.New(core).Sugar())

	n := b.Post("submit events draft", errors.New("upload failed"))
	assert.Equal(t, "upload failed", n.Message)
	assert.Equal(t, 1, logs.FilterMessage("operation failed").Len())

	list := b.List()
	require.Len(t, list, 1)
	assert.Equal(t, n.ID, list[0].ID)

	require.NoError(t, b.Dismiss(n.ID))
	assert.Empty(t, b.List())
	assert.ErrorIs(t, b.Dismiss(n.ID), ErrNoticeNotFound)
}

func TestBoardIsBounded(t *testing.T) {
	b := NewBoard(nil)
	for i := 0; i < MaxNotices+5; i++ {
		b.Post("op", fmt.Errorf("failure %d", i))
	}
	list := b.List()
	require.Len(t, list, MaxNotices)
	assert.Equal(t, "failure 5", list[0].Message)
}
