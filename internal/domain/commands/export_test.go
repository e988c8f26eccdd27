package commands

// FormatElapsed exports formatElapsed for testing.
var FormatElapsed = formatElapsed //nolint:gochecknoglobals // test export

// HasLargeFileExtension exports hasLargeFileExtension for testing.
var HasLargeFileExtension = hasLargeFileExtension //nolint:gochecknoglobals // test export

// PipelineFiles exports pipelineFiles for testing.
var PipelineFiles = pipelineFiles //nolint:gochecknoglobals // test export
