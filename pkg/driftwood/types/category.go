package types

// Category names the kind of clutter an ignored path represents.
// Classification assigns exactly one category to every ignored path.
type Category string

// Known categories, in classification priority order. Earlier categories
// win when a path matches the patterns of more than one.
const (
	CategoryTemporary     Category = "temporary"
	CategoryLanguageCache Category = "language-cache"
	CategoryLog           Category = "log"
	CategoryBuildArtifact Category = "build-artifact"
	CategoryIDEMetadata   Category = "ide-metadata"
	CategoryOSMetadata    Category = "os-metadata"
	CategoryTestArtifact  Category = "test-artifact"

	// CategoryOther is the mandatory fallback for paths no rule matches.
	CategoryOther Category = "other"
)

// Categories returns all known categories in priority order, the fallback
// last.
func Categories() []Category {
	return []Category{
		CategoryTemporary,
		CategoryLanguageCache,
		CategoryLog,
		CategoryBuildArtifact,
		CategoryIDEMetadata,
		CategoryOSMetadata,
		CategoryTestArtifact,
		CategoryOther,
	}
}

// String returns the category name.
func (c Category) String() string {
	return string(c)
}
