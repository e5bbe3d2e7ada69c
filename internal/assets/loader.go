package assets

// Built-in asset names.
const (
	DefaultStyleName   = "report"
	DefaultContentName = "report"

	TemplateWeb     = "web"     // browser preview with print button
	TemplatePaged   = "paged"   // fixed pages printed to PDF
	TemplateMeasure = "measure" // off-screen block measurement
	TemplateViewer  = "viewer"  // blob-backed PDF viewer page
)

// AssetLoader loads assets by name, without extension.
type AssetLoader interface {
	// LoadStyle returns styles/{name}.css or ErrStyleNotFound.
	LoadStyle(name string) (string, error)
	// LoadTemplate returns templates/{name}.html or ErrTemplateNotFound.
	LoadTemplate(name string) (string, error)
	// LoadContent returns content/{name}.yaml or ErrContentNotFound.
	LoadContent(name string) ([]byte, error)
}
