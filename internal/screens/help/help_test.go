package help

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHelpScreen_ListsBindings(t *testing.T) {
	h := New()
	view := h.View(100, 30)

	assert.Equal(t, "說明", h.Title())
	for _, want := range []string{"Ctrl+R", "分析原文", "刪除收藏", "顯示 / 隱藏注音"} {
		assert.Contains(t, view, want)
	}
}

func TestHelpScreen_KeyHints(t *testing.T) {
	hints := New().KeyHints()
	assert.Equal(t, "Esc", hints[0].Key)
}
