// Package view renders the department summary as HTML.
package view

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/spec-kit/department-summary/internal/domain"
)

// SummaryPage renders every department of snap in summary order. A nil
// snapshot renders the page shell with an empty body.
func SummaryPage(title string, snap *domain.Snapshot) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		ew := &errWriter{w: w}
		ew.write(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`)
		ew.write(templ.EscapeString(title))
		ew.write(`</title></head><body><div class="App"><div>`)
		if snap != nil {
			snap.Summary.Each(func(name string, d *domain.DepartmentSummary) bool {
				if ew.err != nil {
					return false
				}
				ew.err = Department(name, d).Render(ctx, w)
				return true
			})
		}
		ew.write(`</div></div></body></html>`)
		return ew.err
	})
}

// Department renders one department block.
func Department(name string, d *domain.DepartmentSummary) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		ew := &errWriter{w: w}
		ew.write(`<div class="department"><h2>`)
		ew.write(templ.EscapeString(name))
		ew.write(`</h2>`)
		ew.write(`<p>Male: ` + strconv.Itoa(d.Male) + `</p>`)
		ew.write(`<p>Female: ` + strconv.Itoa(d.Female) + `</p>`)
		ew.write(`<p>Age Range: ` + templ.EscapeString(d.AgeRange) + `</p>`)

		ew.write(`<p>Hair:</p><ul>`)
		d.Hair.Each(func(color string, n int) bool {
			ew.write(fmt.Sprintf(`<li>%s: %d</li>`, templ.EscapeString(color), n))
			return ew.err == nil
		})
		ew.write(`</ul>`)

		ew.write(`<p>Address Summary:</p><ul>`)
		d.AddressUser.Each(func(person, postal string) bool {
			ew.write(`<li>` + templ.EscapeString(person) + `: ` + templ.EscapeString(postal) + `</li>`)
			return ew.err == nil
		})
		ew.write(`</ul></div>`)
		return ew.err
	})
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) write(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}
