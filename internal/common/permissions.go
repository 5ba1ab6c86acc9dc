package common

// File permission constants shared by writers and tests
const (
	// FilePermissionNormal is used for generated reports and fixtures
	FilePermissionNormal = 0644

	// DirPermissionNormal is used for directories created on demand
	DirPermissionNormal = 0755
)
