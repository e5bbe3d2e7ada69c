package report2pdf

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-report2pdf/internal/document"
	"github.com/alnah/go-report2pdf/internal/layout"
	"github.com/alnah/go-report2pdf/internal/pipeline"
)

// pxToPt converts CSS pixels to points.
const pxToPt = 0.75

// browserMeasurer lays blocks out in headless Chrome and reads back their
// heights and break candidates, so pagination agrees with the printed line
// boxes.
type browserMeasurer struct {
	source  browserSource
	builder *pipeline.Builder
	css     string
	timeout time.Duration
}

var _ layout.Measurer = (*browserMeasurer)(nil)

// rawMeasure is what measureJS returns per block, in CSS pixels.
type rawMeasure struct {
	Height float64   `json:"height"`
	Breaks []float64 `json:"breaks"`
}

// Measure implements layout.Measurer.
func (m *browserMeasurer) Measure(ctx context.Context, blocks []document.Block, width float64) ([]layout.Measure, error) {
	if len(blocks) == 0 {
		return nil, nil
	}
	htmlContent, err := m.builder.MeasureHTML(blocks, width, m.css)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMeasure, err)
	}

	browser, err := m.source.Browser()
	if err != nil {
		return nil, err
	}
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	page = page.Context(ctx).Timeout(m.timeout)
	if err := page.SetDocumentContent(htmlContent); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	res, err := page.Eval(measureJS)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMeasure, err)
	}

	var raw []rawMeasure
	if err := res.Value.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("%w: decoding result: %v", ErrMeasure, err)
	}
	if len(raw) != len(blocks) {
		return nil, fmt.Errorf("%w: %d results for %d blocks", ErrMeasure, len(raw), len(blocks))
	}
	return toMeasures(blocks, raw), nil
}

// toMeasures converts pixel results and applies the per-type rules the
// browser cannot know: headings stay with the next block and page breaks
// force a new page.
func toMeasures(blocks []document.Block, raw []rawMeasure) []layout.Measure {
	out := make([]layout.Measure, len(blocks))
	for i, r := range raw {
		switch pipeline.Kind(blocks[i].Type) {
		case pipeline.KindBreak:
			out[i] = layout.Measure{ForceBreak: true}
			continue
		case pipeline.KindAtomic:
			r.Breaks = nil
		}
		m := layout.Measure{Height: r.Height * pxToPt}
		if blocks[i].Type == document.BlockHeading {
			m.KeepWithNext = true
		} else {
			for _, b := range r.Breaks {
				if b*pxToPt > 0 && b*pxToPt < m.Height {
					m.Breaks = append(m.Breaks, b*pxToPt)
				}
			}
		}
		out[i] = m
	}
	return out
}

// measureJS waits for fonts, then reports for every block wrapper its
// height and the offsets where it may be cut: the middle of the gap between
// consecutive line boxes for text, and between rows for tables and grids.
const measureJS = `() => document.fonts.ready.then(() => {
  const lineBreaks = (el, top) => {
    const lines = [];
    const walker = document.createTreeWalker(el, NodeFilter.SHOW_TEXT);
    const range = document.createRange();
    while (walker.nextNode()) {
      const node = walker.currentNode;
      if (!node.textContent.trim()) continue;
      range.selectNodeContents(node);
      for (const r of range.getClientRects()) {
        if (r.height === 0) continue;
        lines.push([r.top - top, r.bottom - top]);
      }
    }
    lines.sort((a, b) => a[0] - b[0]);
    const merged = [];
    for (const l of lines) {
      const last = merged[merged.length - 1];
      if (last && l[0] < last[1] - 0.5) {
        last[1] = Math.max(last[1], l[1]);
      } else {
        merged.push([l[0], l[1]]);
      }
    }
    const breaks = [];
    for (let i = 1; i < merged.length; i++) {
      breaks.push((merged[i - 1][1] + merged[i][0]) / 2);
    }
    return breaks;
  };
  const rowBreaks = (el, top) => {
    const rows = el.querySelectorAll("tbody tr, .grid > .cell");
    const edges = [];
    for (const row of rows) {
      const r = row.getBoundingClientRect();
      const last = edges[edges.length - 1];
      if (last && Math.abs(last[0] - (r.top - top)) < 0.5) {
        last[1] = Math.max(last[1], r.bottom - top);
      } else {
        edges.push([r.top - top, r.bottom - top]);
      }
    }
    const breaks = [];
    for (let i = 1; i < edges.length; i++) {
      breaks.push((edges[i - 1][1] + edges[i][0]) / 2);
    }
    return breaks;
  };
  return Array.from(document.querySelectorAll("#measure > .block")).map(el => {
    const box = el.getBoundingClientRect();
    let breaks = [];
    switch (el.dataset.kind) {
      case "text": breaks = lineBreaks(el, box.top); break;
      case "rows": breaks = rowBreaks(el, box.top); break;
    }
    return {height: box.height, breaks: breaks};
  });
})`
