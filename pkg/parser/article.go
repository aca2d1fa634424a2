package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/coolbeans/lexhun/pkg/act"
	"github.com/coolbeans/lexhun/pkg/lines"
)

// Article headers look like "17. § Text", "2:34. § Text" in book-numbered
// acts, or "17/A. § Text" for inserted articles. The space after the dot is
// sometimes missing in source documents.
var articleHeaderPattern = regexp.MustCompile(`^([0-9]+:)?([0-9]+(?:/[A-Z]{1,2})?)\. ?§ *(.*)$`)

func isArticleHeader(content string) bool {
	return articleHeaderPattern.MatchString(content)
}

func articleHeaderID(content string) (string, bool) {
	m := articleHeaderPattern.FindStringSubmatch(content)
	if m == nil {
		return "", false
	}
	// The book group keeps its ":" so the identifier is a plain concatenation.
	return m[1] + m[2], true
}

// parseArticle parses one article's lines, header line included.
func parseArticle(ls []lines.Line, nonStrict bool) (*act.Article, error) {
	m := articleHeaderPattern.FindStringSubmatch(ls[0].Content())
	if m == nil {
		return nil, structureErr("article", "", ls[0].Content(), errors.New("line is not an article header"))
	}
	identifier := m[1] + m[2]

	restOffset := utf8.RuneCountInString(ls[0].Content()) - utf8.RuneCountInString(m[3])
	body := make([]lines.Line, 0, len(ls))
	body = append(body, ls[0].Slice(restOffset))
	body = append(body, ls[1:]...)

	article, err := parseArticleBody(identifier, body, nonStrict)
	if err != nil {
		return nil, structureErr("article", identifier, ls[0].Content(), err)
	}
	return article, nil
}

func parseArticleBody(identifier string, ls []lines.Line, nonStrict bool) (*act.Article, error) {
	article := &act.Article{Identifier: identifier}

	if len(ls) > 0 && strings.HasPrefix(ls[0].Content(), "[") {
		// Some acts give articles bracketed titles:
		// 3:116. § [A társaság képviselete. Cégjegyzés]
		closing := -1
		for i := 0; i < len(ls) && i < 3; i++ {
			if strings.HasSuffix(ls[i].Content(), "]") {
				closing = i
				break
			}
		}
		if closing < 0 {
			return nil, errors.New("article title bracket does not close")
		}
		title := lines.JoinContent(ls[:closing+1])
		article.Title = strings.TrimSuffix(strings.TrimPrefix(title, "["), "]")
		ls = ls[closing+1:]
	}

	// A single blank line between title and content appears in rare source
	// documents; the upstream extraction never produces two in a row.
	if len(ls) > 0 && ls[0].IsEmpty() {
		ls = ls[1:]
	}
	if len(ls) == 0 {
		return nil, errors.New("article has no content")
	}

	paragraphs := paragraphSpec()
	id, isHeader := paragraphs.matchHeader(ls[0].Content())
	if !isHeader || !paragraphs.acceptsFirst(id, nonStrict) {
		// No recognizable first paragraph header: the whole body is one
		// unnumbered paragraph.
		paragraph, err := paragraphs.parseElement(ls, "", nonStrict)
		if err != nil {
			return nil, err
		}
		article.Children = []*act.SubArticleElement{paragraph}
		return article, nil
	}

	result, err := paragraphs.extractList(ls, nonStrict)
	if err != nil {
		return nil, err
	}
	if result.intro != "" {
		return nil, fmt.Errorf("junk before first paragraph: %q", result.intro)
	}
	if result.wrapUp != "" {
		return nil, fmt.Errorf("junk after last paragraph: %q", result.wrapUp)
	}
	article.Children = result.children
	return article, nil
}
