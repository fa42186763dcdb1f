package errors

import "fmt"

// Sentinels for errors.Is checks. Each matches any error of its code.
var (
	ErrSkip               = sentinel(SkipCode, "file does not follow the controller naming convention")
	ErrLookupMiss         = sentinel(LookupMissCode, "lookup found nothing")
	ErrInstantiationFault = sentinel(InstantiationFaultCode, "class could not be instantiated")
	ErrMalformedPattern   = sentinel(MalformedPatternCode, "pattern matched with empty capture")
)

func sentinel(code ErrorCode, message string) *BaseError {
	return &BaseError{Code: code, Message: message, sentinel: true}
}

// NewLookupMiss reports that a registry or class loader knows nothing about name
func NewLookupMiss(kind, name string) *BaseError {
	return Newf(LookupMissCode, "%s '%s' not found", kind, name).
		WithContext("kind", kind).
		WithContext("name", name)
}

// NewInstantiationFault wraps a construction failure of a probed class
func NewInstantiationFault(className string, cause error) *BaseError {
	return Wrap(InstantiationFaultCode, fmt.Sprintf("could not instantiate %s", className), cause).
		WithContext("class", className)
}

// NewInstantiationPanic converts a recovered panic value into an instantiation fault
func NewInstantiationPanic(className string, recovered interface{}) *BaseError {
	if err, ok := recovered.(error); ok {
		return NewInstantiationFault(className, err)
	}
	return NewInstantiationFault(className, fmt.Errorf("%v", recovered))
}

// NewMalformedPattern reports a pattern hit whose capture could not be used
func NewMalformedPattern(pattern, match string) *BaseError {
	return Newf(MalformedPatternCode, "pattern %s matched '%s' without a usable capture", pattern, match)
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(source, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, source)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("source", source).
		WithContext("operation", operation)
}

// WrapManifestError wraps failures while reading a project manifest
func WrapManifestError(path string, cause error) *BaseError {
	return Wrap(ManifestErrorCode, fmt.Sprintf("invalid manifest '%s'", path), cause).
		WithLocation(SourceLocation{File: path}).
		WithSuggestion("Check the manifest against the documented controllers/tables layout")
}

// WrapWriterError wraps failures while rewriting a doc block
func WrapWriterError(path string, cause error) *BaseError {
	return Wrap(WriterErrorCode, "failed to update doc block", cause).
		WithLocation(SourceLocation{File: path})
}
