package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSiteError_Error_WithAndWithoutCause(t *testing.T) {
	plain := New(CategoryParse, SeverityError, "bad header")
	require.Equal(t, "parse (error): bad header", plain.Error())

	wrapped := Wrap(fmt.Errorf("boom"), CategoryRender, SeverityFatal, "render failed")
	require.Equal(t, "render (fatal): render failed: boom", wrapped.Error())
}

func TestSiteError_Unwrap_PreservesCause(t *testing.T) {
	cause := errors.New("underlying")
	err := WrapError(cause, CategoryFileSystem, "write failed")

	require.True(t, errors.Is(err, cause))
}

func TestSiteError_WithContext_AccumulatesFields(t *testing.T) {
	err := New(CategoryLayout, SeverityError, "unknown layout").
		WithContext("layout", "nonexistent").
		WithContext("document", "2019-04-08-hello.md")

	require.Equal(t, "nonexistent", err.Context["layout"])
	require.Equal(t, "2019-04-08-hello.md", err.Context["document"])
}

func TestIsCategory_And_GetCategory(t *testing.T) {
	err := New(CategoryLinkCheck, SeverityWarning, "broken link")

	require.True(t, IsCategory(err, CategoryLinkCheck))
	require.False(t, IsCategory(err, CategoryParse))
	require.Equal(t, CategoryLinkCheck, GetCategory(err))
	require.Equal(t, CategoryInternal, GetCategory(errors.New("plain")))
}

func TestIsFatal(t *testing.T) {
	require.True(t, IsFatal(New(CategoryConfig, SeverityFatal, "missing config")))
	require.False(t, IsFatal(New(CategoryParse, SeverityError, "bad doc")))
	require.False(t, IsFatal(errors.New("plain")))
}
