package utils

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/toyz/cgp/internal/utils/mocks"
)

func TestFallbackFormatterUsesPrimary(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockFormatter(ctrl)
	secondary := mocks.NewMockFormatter(ctrl)

	primary.EXPECT().Format(gomock.Any(), "pub struct App;").Return("pub struct App;\n", nil)
	primary.EXPECT().Name().Return("rustfmt")

	f := &FallbackFormatter{Primary: primary, Secondary: secondary}
	out, err := f.Format(context.Background(), "pub struct App;")
	require.NoError(t, err)
	assert.Equal(t, "pub struct App;\n", out)
	assert.Equal(t, "rustfmt", f.Name())
}

func TestFallbackFormatterFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockFormatter(ctrl)
	secondary := mocks.NewMockFormatter(ctrl)

	failure := errors.New("rustfmt: not found")
	gomock.InOrder(
		primary.EXPECT().Format(gomock.Any(), "src").Return("src", failure),
		secondary.EXPECT().Format(gomock.Any(), "src").Return("formatted", nil),
	)

	var reported error
	f := &FallbackFormatter{Primary: primary, Secondary: secondary, OnFallback: func(err error) { reported = err }}
	out, err := f.Format(context.Background(), "src")
	require.NoError(t, err)
	assert.Equal(t, "formatted", out)
	assert.Equal(t, failure, reported)
}

func TestFallbackFormatterWithoutSecondary(t *testing.T) {
	ctrl := gomock.NewController(t)
	primary := mocks.NewMockFormatter(ctrl)
	primary.EXPECT().Format(gomock.Any(), gomock.Any()).Return("", errors.New("boom"))

	f := &FallbackFormatter{Primary: primary}
	out, err := f.Format(context.Background(), "src")
	assert.EqualError(t, err, "boom")
	assert.Equal(t, "src", out, "the input is returned unchanged")
}

func TestFormatterFunc(t *testing.T) {
	f := FormatterFunc{Label: "upper", Fn: func(s string) (string, error) { return strings.ToUpper(s), nil }}
	out, err := f.Format(context.Background(), "impl")
	require.NoError(t, err)
	assert.Equal(t, "IMPL", out)
	assert.Equal(t, "upper", f.Name())
}

func TestRustfmtFormatterMissingBinary(t *testing.T) {
	r := NewRustfmtFormatter()
	r.Binary = "rustfmt-does-not-exist"
	assert.False(t, r.Available())

	out, err := r.Format(context.Background(), "fn main(){}")
	assert.ErrorContains(t, err, "rustfmt failed")
	assert.Equal(t, "fn main(){}", out)
}
