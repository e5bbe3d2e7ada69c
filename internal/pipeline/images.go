package pipeline

import (
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-report2pdf/internal/media"
)

// inlineImages replaces relative <img src> paths in an HTML fragment with
// data URIs of the files under baseDir. Images that cannot be loaded, or
// whose path leaves baseDir, keep their original src.
func inlineImages(fragment, baseDir string, load func(string) (*media.Image, error)) (string, error) {
	if baseDir == "" || !strings.Contains(fragment, "<img") {
		return fragment, nil
	}
	absDir, err := filepath.Abs(baseDir)
	if err != nil {
		return "", err
	}

	body := &html.Node{Type: html.ElementNode, DataAtom: atom.Body, Data: "body"}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", err
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Img {
			for i, a := range n.Attr {
				if a.Key != "src" || !isRelativePath(a.Val) {
					continue
				}
				path := filepath.Join(absDir, filepath.FromSlash(a.Val))
				if !isPathUnderDir(path, absDir) {
					continue
				}
				if img, err := load(path); err == nil {
					n.Attr[i].Val = img.DataURI()
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	var buf strings.Builder
	for _, n := range nodes {
		walk(n)
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// isRelativePath reports whether src names a local file relative to the
// document.
func isRelativePath(src string) bool {
	if src == "" || strings.HasPrefix(src, "#") || strings.HasPrefix(src, "//") || filepath.IsAbs(src) {
		return false
	}
	if i := strings.Index(src, ":"); i > 0 && !strings.ContainsAny(src[:i], "/.") {
		return false // has a scheme: http:, data:, file:
	}
	return true
}

func isPathUnderDir(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
