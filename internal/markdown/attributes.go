package markdown

import (
	"regexp"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var (
	// {: alt="" .wide #hero width="200"}
	attributeListPattern = regexp.MustCompile(`^\{:\s*((?:[^{}"']|"[^"]*"|'[^']*')*)\}`)
	attributePattern     = regexp.MustCompile(`([A-Za-z_][-A-Za-z0-9_:.]*)\s*=\s*(?:"([^"]*)"|'([^']*)')|\.([-A-Za-z0-9_]+)|#([-A-Za-z0-9_:.]+)`)
)

// imageAttributeParser reads a kramdown style inline attribute list placed
// directly after an image and stores the attributes on that image. Text that
// does not follow an image, or does not parse as a list, stays literal.
type imageAttributeParser struct{}

func (imageAttributeParser) Trigger() []byte {
	return []byte{'{'}
}

func (imageAttributeParser) Parse(parent ast.Node, block text.Reader, _ parser.Context) ast.Node {
	image, ok := parent.LastChild().(*ast.Image)
	if !ok {
		return nil
	}

	line, segment := block.PeekLine()
	match := attributeListPattern.FindSubmatchIndex(line)
	if match == nil {
		return nil
	}

	body := line[match[2]:match[3]]
	for _, attr := range attributePattern.FindAllSubmatch(body, -1) {
		switch {
		case attr[1] != nil:
			value := attr[2]
			if value == nil {
				value = attr[3]
			}
			image.SetAttribute(attr[1], append([]byte{}, value...))
		case attr[4] != nil:
			appendClass(image, attr[4])
		case attr[5] != nil:
			image.SetAttribute([]byte("id"), append([]byte{}, attr[5]...))
		}
	}

	block.Advance(match[1])
	// An empty segment marks the list as consumed without emitting text.
	end := segment.Start + match[1]
	return ast.NewTextSegment(text.NewSegment(end, end))
}

func appendClass(node ast.Node, class []byte) {
	existing, ok := node.AttributeString("class")
	if !ok {
		node.SetAttributeString("class", append([]byte{}, class...))
		return
	}
	current, _ := existing.([]byte)
	merged := make([]byte, 0, len(current)+1+len(class))
	merged = append(merged, current...)
	if len(merged) > 0 {
		merged = append(merged, ' ')
	}
	merged = append(merged, class...)
	node.SetAttributeString("class", merged)
}
