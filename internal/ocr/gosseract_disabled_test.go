//go:build !gosseract

package ocr

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewGosseractEngine_WithoutTag(t *testing.T) {
	engine, err := New(context.Background(), Options{Engine: "gosseract"})
	assert.ErrorIs(t, err, ErrEngineNotFound)
	assert.True(t, engine == nil, "engine must be a nil interface, got %#v", engine)
}
