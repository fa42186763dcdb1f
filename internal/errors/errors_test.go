package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *BaseError
		want string
	}{
		{
			name: "message only",
			err:  New(LookupMissCode, "table 'Articles' not found"),
			want: "table 'Articles' not found",
		},
		{
			name: "with cause",
			err:  Wrap(FileSystemErrorCode, "failed to read", fmt.Errorf("permission denied")),
			want: "failed to read: permission denied",
		},
		{
			name: "with location",
			err:  New(SkipCode, "no class").WithLocation(SourceLocation{File: "a.php", Line: 3}),
			want: "a.php:3: no class",
		},
		{
			name: "file without line",
			err:  New(SkipCode, "no class").WithLocation(SourceLocation{File: "a.php"}),
			want: "a.php: no class",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestSentinels(t *testing.T) {
	miss := NewLookupMiss("table", "Articles")
	assert.ErrorIs(t, miss, ErrLookupMiss)
	assert.NotErrorIs(t, miss, ErrSkip)
	assert.Equal(t, "table", miss.Context()["kind"])
	assert.Equal(t, "Articles", miss.Context()["name"])

	wrapped := fmt.Errorf("outer: %w", NewInstantiationFault(`App\Controller\UsersController`, fmt.Errorf("boom")))
	assert.ErrorIs(t, wrapped, ErrInstantiationFault)
	assert.Equal(t, InstantiationFaultCode, CodeOf(wrapped))

	// a sentinel does not match a sentinel of another code
	assert.False(t, ErrSkip.Is(ErrLookupMiss))
	// a plain error is never matched
	assert.False(t, New(SkipCode, "x").Is(fmt.Errorf("x")))
	// a non-sentinel with the same code does not act as a sentinel
	assert.False(t, New(SkipCode, "a").Is(New(SkipCode, "b")))
}

func TestNewInstantiationPanic(t *testing.T) {
	fromError := NewInstantiationPanic("Foo", fmt.Errorf("bad state"))
	assert.Equal(t, "could not instantiate Foo: bad state", fromError.Error())

	fromValue := NewInstantiationPanic("Foo", 42)
	assert.Equal(t, "could not instantiate Foo: 42", fromValue.Error())
	assert.Equal(t, "Foo", fromValue.Context()["class"])
}

func TestWrappers(t *testing.T) {
	cause := fmt.Errorf("disk full")

	fs := WrapFileSystemError("write", "src/Controller/A.php", cause)
	assert.Equal(t, FileSystemErrorCode, fs.ErrorCode())
	assert.Equal(t, "write", fs.Context()["operation"])
	assert.Equal(t, "src/Controller/A.php", fs.Context()["path"])
	assert.True(t, stderrors.Is(fs, cause))

	cfg := WrapConfigurationError(".idehint.yml", "read", cause)
	assert.Equal(t, ConfigurationErrorCode, cfg.ErrorCode())
	assert.Contains(t, cfg.Error(), "failed to read configuration '.idehint.yml'")

	manifest := WrapManifestError("idehint.yml", cause)
	assert.Equal(t, "idehint.yml", manifest.Location().File)
	assert.NotEmpty(t, manifest.Suggestions())

	writer := WrapWriterError("A.php", cause)
	assert.Equal(t, WriterErrorCode, writer.ErrorCode())
	assert.Equal(t, "A.php: failed to update doc block: disk full", writer.Error())

	pattern := NewMalformedPattern("model-class", "$modelClass = ''")
	assert.ErrorIs(t, pattern, ErrMalformedPattern)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, UnknownErrorCode, CodeOf(nil))
	assert.Equal(t, UnknownErrorCode, CodeOf(fmt.Errorf("plain")))
	assert.Equal(t, ManifestErrorCode, CodeOf(fmt.Errorf("ctx: %w", WrapManifestError("m.yml", nil))))
}

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "Skip", SkipCode.String())
	assert.Equal(t, "WriterError", WriterErrorCode.String())
	assert.Equal(t, "UnknownError", ErrorCode(99).String())
}

func TestMultipleErrors(t *testing.T) {
	multi := NewMultipleErrors()
	assert.NoError(t, multi.ErrorOrNil())
	assert.Equal(t, "no errors", multi.Error())

	multi.Add(nil)
	assert.True(t, multi.IsEmpty())

	miss := NewLookupMiss("class", "Foo")
	multi.Add(miss)
	assert.Equal(t, miss.Error(), multi.Error())

	multi.Add(fmt.Errorf("plain"))
	require.Equal(t, 2, multi.Count())
	assert.True(t, multi.HasCode(LookupMissCode))
	assert.True(t, multi.HasCode(UnknownErrorCode))
	assert.False(t, multi.HasCode(WriterErrorCode))

	assert.Contains(t, multi.Error(), "multiple errors (2 total)")
	assert.Contains(t, multi.Error(), "  2. unexpected failure: plain")

	err := multi.ErrorOrNil()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLookupMiss)

	var typed *BaseError
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, LookupMissCode, typed.Code)

	var nilMulti *MultipleErrors
	assert.NoError(t, nilMulti.ErrorOrNil())
}
