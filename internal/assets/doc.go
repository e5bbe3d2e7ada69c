// Package assets provides the stylesheets, HTML templates and report content
// the renderer needs. Assets come from files embedded at compile time or
// from a directory on disk that overrides them one by one.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - go:embed filesystem (built-in assets)
//	    ├── FilesystemLoader  - custom directory on disk
//	    └── AssetResolver     - custom first, embedded as fallback
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css     # decoration layered over the generated typography
//	├── templates/
//	│   └── {name}.html    # web, paged, measure, viewer page shells
//	└── content/
//	    └── {name}.yaml    # report documents
//
// # Security
//
// Asset names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies paths stay within basePath.
package assets
