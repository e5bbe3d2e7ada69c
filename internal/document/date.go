package document

import (
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-report2pdf/internal/dateutil"
)

// DatePlaceholder in block text, captions, and the footer is replaced by
// the resolved document date.
const DatePlaceholder = "{date}"

// now is the clock used by Load.
var now = time.Now

// StampDate resolves Date ("auto", "auto:FORMAT", or literal text) against
// t and substitutes it for DatePlaceholder everywhere text is authored.
// A document without a date is left unchanged.
func (d *Document) StampDate(t time.Time) error {
	if d.Date == "" {
		return nil
	}
	date, err := dateutil.Resolve(d.Date, t)
	if err != nil {
		return fmt.Errorf("%w: date: %v", ErrDocumentParse, err)
	}
	d.Date = date

	r := strings.NewReplacer(DatePlaceholder, date)
	d.Subtitle = r.Replace(d.Subtitle)
	d.Footer = r.Replace(d.Footer)
	for i := range d.Sections {
		for j := range d.Sections[i].Blocks {
			b := &d.Sections[i].Blocks[j]
			b.Text = r.Replace(b.Text)
			b.Caption = r.Replace(b.Caption)
			for k := range b.Items {
				b.Items[k] = r.Replace(b.Items[k])
			}
			for k := range b.Cells {
				b.Cells[k].Text = r.Replace(b.Cells[k].Text)
			}
		}
	}
	return nil
}
