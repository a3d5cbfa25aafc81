package overlay

import (
	"fmt"
	"strings"

	"github.com/decker502/scrollscrub/pkg/config"
	"github.com/decker502/scrollscrub/pkg/utils"
)

// Anchor 叠加层在屏幕上的对齐方式
type Anchor int

const (
	// AnchorCenter 居中
	AnchorCenter Anchor = iota
	// AnchorLeft 左对齐、垂直居中
	AnchorLeft
	// AnchorRight 右对齐、垂直居中
	AnchorRight
)

// ParseAnchor converts "center", "left" or "right" (case-insensitive).
// An empty string is center.
func ParseAnchor(s string) (Anchor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "center":
		return AnchorCenter, nil
	case "left":
		return AnchorLeft, nil
	case "right":
		return AnchorRight, nil
	default:
		return AnchorCenter, fmt.Errorf("unknown overlay anchor %q", s)
	}
}

// Content 叠加层文本内容
type Content struct {
	Kicker  string   // 小标签，如 "A19 Pro Chip"
	Title   string   // 主标题，可含换行
	Body    string   // 正文
	Buttons []string // 按钮文字（仅展示）
	Arrow   bool     // 滚动提示箭头
}

// Overlay is one scroll-keyed text block. Nil tracks leave the property
// at its rest value (opacity 1, no translation, scale 1).
type Overlay struct {
	ID      string
	Anchor  Anchor
	Content Content

	Opacity    *Track
	TranslateX *Track
	TranslateY *Track
	Scale      *Track
}

// Style 某一进度下的叠加层样式
type Style struct {
	ID         string
	Opacity    float64 // [0,1]
	TranslateX float64 // 逻辑像素
	TranslateY float64 // 逻辑像素
	Scale      float64
}

// Visible reports whether the overlay needs drawing.
func (s Style) Visible() bool {
	return s.Opacity > 0
}

// StyleAt evaluates every track at progress p.
func (o *Overlay) StyleAt(p float64) Style {
	s := Style{ID: o.ID, Opacity: 1, Scale: 1}
	if o.Opacity != nil {
		s.Opacity = utils.Clamp01(o.Opacity.Value(p))
	}
	if o.TranslateX != nil {
		s.TranslateX = o.TranslateX.Value(p)
	}
	if o.TranslateY != nil {
		s.TranslateY = o.TranslateY.Value(p)
	}
	if o.Scale != nil {
		s.Scale = o.Scale.Value(p)
	}
	return s
}

// FromConfig builds an Overlay from its YAML description.
func FromConfig(c config.OverlayConfig) (*Overlay, error) {
	anchor, err := ParseAnchor(c.Anchor)
	if err != nil {
		return nil, fmt.Errorf("overlay %s: %w", c.ID, err)
	}

	o := &Overlay{
		ID:     c.ID,
		Anchor: anchor,
		Content: Content{
			Kicker:  c.Kicker,
			Title:   c.Title,
			Body:    c.Body,
			Buttons: append([]string(nil), c.Buttons...),
			Arrow:   c.Arrow,
		},
	}

	tracks := []struct {
		name string
		cfg  *config.TrackConfig
		dst  **Track
	}{
		{"opacity", c.Opacity, &o.Opacity},
		{"x", c.X, &o.TranslateX},
		{"y", c.Y, &o.TranslateY},
		{"scale", c.Scale, &o.Scale},
	}
	for _, tr := range tracks {
		if tr.cfg == nil {
			continue
		}
		t, err := NewTrack(tr.cfg.Breakpoints, tr.cfg.Values)
		if err != nil {
			return nil, fmt.Errorf("overlay %s %s track: %w", c.ID, tr.name, err)
		}
		*tr.dst = t
	}
	return o, nil
}

// FromConfigs builds every overlay of a scrub configuration in order.
func FromConfigs(cfgs []config.OverlayConfig) ([]*Overlay, error) {
	out := make([]*Overlay, 0, len(cfgs))
	for _, c := range cfgs {
		o, err := FromConfig(c)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}
