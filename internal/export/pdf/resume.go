package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type ResumeData struct {
	Name     string
	Headline string
	Email    string

	Sections []ResumeSection
}

type ResumeSection struct {
	Title string
	Body  string
	Items []ResumeItem
}

type ResumeItem struct {
	Heading     string
	Subheading  string
	Period      string
	Description string
}

type Renderer interface {
	RenderResume(ctx context.Context, data ResumeData) (io.Reader, error)
}

type renderer struct{}

func New() Renderer {
	return &renderer{}
}

func (r *renderer) RenderResume(_ context.Context, data ResumeData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(14,
		text.NewCol(12, data.Name, props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)
	if data.Headline != "" {
		m.AddRow(8,
			text.NewCol(12, data.Headline, props.Text{Size: 11}),
		)
	}
	if data.Email != "" {
		m.AddRow(6,
			text.NewCol(12, data.Email, props.Text{Size: 9}),
		)
	}

	for _, section := range data.Sections {
		m.AddRow(12,
			text.NewCol(12, section.Title, props.Text{
				Size:  13,
				Style: fontstyle.Bold,
				Top:   4,
			}),
		)
		if section.Body != "" {
			m.AddRow(10,
				text.NewCol(12, section.Body, props.Text{Size: 9}),
			)
		}
		for _, item := range section.Items {
			m.AddRow(8,
				text.NewCol(9, item.Heading, props.Text{Style: fontstyle.Bold, Size: 10}),
				text.NewCol(3, item.Period, props.Text{Size: 9, Align: align.Right}),
			)
			if item.Subheading != "" {
				m.AddRow(6,
					text.NewCol(12, item.Subheading, props.Text{Size: 9}),
				)
			}
			if item.Description != "" {
				m.AddRow(10,
					col.New(12).Add(
						text.New(item.Description, props.Text{Size: 9}),
					),
				)
			}
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}
