package parser

import (
	"errors"
	"testing"

	"github.com/coolbeans/lexhun/pkg/act"
	"github.com/coolbeans/lexhun/pkg/lines"
)

func ln(content string, indent float64) lines.Line {
	return lines.FromContent(content, indent)
}

func mustParseAct(t *testing.T, ls []lines.Line) *act.Act {
	t.Helper()
	parsed, err := ParseAct("2020. évi I. törvény", "a tesztelésről", ls)
	if err != nil {
		t.Fatal(err)
	}
	return parsed
}

func TestParseActBasic(t *testing.T) {
	parsed := mustParseAct(t, []lines.Line{
		ln("Az Országgyűlés a következő törvényt alkotja:", 0),
		lines.Empty,
		ln("1. § Ez a törvény a tesztelésről szól.", 0),
		lines.Empty,
		ln("2. § (1) Első bekezdés.", 0),
		ln("(2) Második bekezdés.", 0),
	})

	if parsed.Preamble != "Az Országgyűlés a következő törvényt alkotja:" {
		t.Errorf("preamble = %q", parsed.Preamble)
	}
	articles := parsed.Articles()
	if len(articles) != 2 {
		t.Fatalf("got %d articles, want 2", len(articles))
	}

	first := articles[0]
	if first.Identifier != "1" {
		t.Errorf("first identifier = %q", first.Identifier)
	}
	if len(first.Children) != 1 {
		t.Fatalf("article 1 has %d paragraphs, want 1", len(first.Children))
	}
	single := first.Children[0]
	if single.Identifier != "" || single.Text != "Ez a törvény a tesztelésről szól." {
		t.Errorf("unnumbered paragraph = %+v", single)
	}

	second := articles[1]
	if len(second.Children) != 2 {
		t.Fatalf("article 2 has %d paragraphs, want 2", len(second.Children))
	}
	if second.Children[0].Identifier != "1" || second.Children[0].Text != "Első bekezdés." {
		t.Errorf("paragraph (1) = %+v", second.Children[0])
	}
	if second.Children[1].Identifier != "2" || second.Children[1].Text != "Második bekezdés." {
		t.Errorf("paragraph (2) = %+v", second.Children[1])
	}
}

func TestPointsAndSubpoints(t *testing.T) {
	parsed := mustParseAct(t, []lines.Line{
		ln("Bevezető.", 0),
		lines.Empty,
		ln("3. § A hatóság", 0),
		ln("a) az első esetben", 3),
		ln("aa) az egyik alesetben", 6),
		ln("ab) a másik alesetben", 6),
		ln("b) a második esetben", 3),
		ln("jár el.", 3),
	})

	paragraph := parsed.Article("3").Paragraph("")
	if paragraph == nil {
		t.Fatal("article 3 has no unnumbered paragraph")
	}
	if paragraph.Intro != "A hatóság" {
		t.Errorf("intro = %q", paragraph.Intro)
	}
	if paragraph.WrapUp != "jár el." {
		t.Errorf("wrap-up = %q", paragraph.WrapUp)
	}
	if len(paragraph.Children) != 2 {
		t.Fatalf("got %d points, want 2", len(paragraph.Children))
	}

	pointA := paragraph.Children[0].(*act.SubArticleElement)
	if pointA.Kind != act.KindAlphabeticPoint || pointA.Identifier != "a" {
		t.Fatalf("point a = %+v", pointA)
	}
	if pointA.Intro != "az első esetben" {
		t.Errorf("point a intro = %q", pointA.Intro)
	}
	if len(pointA.Children) != 2 {
		t.Fatalf("point a has %d subpoints, want 2", len(pointA.Children))
	}
	sub := pointA.Children[0].(*act.SubArticleElement)
	if sub.Kind != act.KindAlphabeticSubpoint || sub.Identifier != "aa" || sub.Text != "az egyik alesetben" {
		t.Errorf("subpoint aa = %+v", sub)
	}

	pointB := paragraph.Children[1].(*act.SubArticleElement)
	if pointB.Text != "a második esetben" {
		t.Errorf("point b = %+v", pointB)
	}
}

func TestBracketedArticleTitle(t *testing.T) {
	parsed := mustParseAct(t, []lines.Line{
		ln("Bevezető.", 0),
		lines.Empty,
		ln("3:116. § [A társaság képviselete]", 0),
		ln("(1) Valamit szabályoz.", 0),
		ln("(2) Mást szabályoz.", 0),
	})

	article := parsed.Article("3:116")
	if article == nil {
		t.Fatal("missing article 3:116")
	}
	if article.Title != "A társaság képviselete" {
		t.Errorf("title = %q", article.Title)
	}
	if len(article.Children) != 2 {
		t.Errorf("got %d paragraphs, want 2", len(article.Children))
	}
}

func TestStructuralDividers(t *testing.T) {
	parsed := mustParseAct(t, []lines.Line{
		ln("Bevezető.", 0),
		lines.Empty,
		ln("I. Fejezet", 10),
		ln("Általános szabályok", 10),
		lines.Empty,
		ln("1. § Valami.", 0),
		lines.Empty,
		ln("II. Fejezet", 10),
		ln("Különös szabályok", 10),
		lines.Empty,
		ln("2. § Más.", 0),
		lines.Empty,
		ln("1. Az eljárás", 10),
		lines.Empty,
		ln("3. § Harmadik.", 0),
	})

	var dividers []*act.StructuralElement
	for _, child := range parsed.Children {
		if divider, ok := child.(*act.StructuralElement); ok {
			dividers = append(dividers, divider)
		}
	}
	if len(dividers) != 3 {
		t.Fatalf("got %d dividers, want 3: %+v", len(dividers), dividers)
	}

	if dividers[0].Kind != act.StructuralChapter || dividers[0].Identifier != "1" || dividers[0].Title != "Általános szabályok" {
		t.Errorf("first chapter = %+v", dividers[0])
	}
	if dividers[1].Kind != act.StructuralChapter || dividers[1].Identifier != "2" {
		t.Errorf("second chapter = %+v", dividers[1])
	}
	if dividers[2].Kind != act.StructuralSubtitle || dividers[2].Identifier != "1" || dividers[2].Title != "Az eljárás" {
		t.Errorf("subtitle = %+v", dividers[2])
	}

	if len(parsed.Articles()) != 3 {
		t.Errorf("got %d articles, want 3", len(parsed.Articles()))
	}
}

func TestQuotedBlocks(t *testing.T) {
	parsed := mustParseAct(t, []lines.Line{
		ln("Bevezető.", 0),
		lines.Empty,
		ln("4. § (1) A Ptk. 8. §-a helyébe a következő rendelkezés lép:", 0),
		ln("„8. § Új szöveg.”", 5),
		ln("(2) Ez a bekezdés sima szöveg.", 0),
	})

	paragraph := parsed.Article("4").Paragraph("1")
	if paragraph == nil {
		t.Fatal("missing paragraph (1)")
	}
	if paragraph.Intro != "A Ptk. 8. §-a helyébe a következő rendelkezés lép:" {
		t.Errorf("intro = %q", paragraph.Intro)
	}
	if len(paragraph.Children) != 1 {
		t.Fatalf("got %d children, want 1", len(paragraph.Children))
	}
	quoted, ok := paragraph.Children[0].(*act.QuotedBlock)
	if !ok {
		t.Fatalf("child is %T, want quoted block", paragraph.Children[0])
	}
	if len(quoted.Lines) != 1 || quoted.Lines[0].Content() != "8. § Új szöveg." {
		t.Errorf("quoted lines = %+v", quoted.Lines)
	}

	plain := parsed.Article("4").Paragraph("2")
	if plain == nil || plain.Text != "Ez a bekezdés sima szöveg." {
		t.Errorf("paragraph (2) = %+v", plain)
	}
}

func TestMultilineQuotedBlockWithWrapUp(t *testing.T) {
	parsed := mustParseAct(t, []lines.Line{
		ln("Bevezető.", 0),
		lines.Empty,
		ln("5. § Az Efo. tv. 8. §-a a következő szöveggel", 0),
		ln("„8. § Hosszabb szöveg első sora,", 5),
		ln("második sora.”", 5),
		ln("lép hatályba.", 0),
	})

	paragraph := parsed.Article("5").Paragraph("")
	if paragraph == nil {
		t.Fatal("missing unnumbered paragraph")
	}
	if paragraph.WrapUp != "lép hatályba." {
		t.Errorf("wrap-up = %q", paragraph.WrapUp)
	}
	quoted, ok := paragraph.Children[0].(*act.QuotedBlock)
	if !ok {
		t.Fatalf("child is %T, want quoted block", paragraph.Children[0])
	}
	if len(quoted.Lines) != 2 {
		t.Fatalf("got %d quoted lines, want 2", len(quoted.Lines))
	}
	if quoted.Lines[0].Content() != "8. § Hosszabb szöveg első sora," ||
		quoted.Lines[1].Content() != "második sora." {
		t.Errorf("quoted lines = %q, %q", quoted.Lines[0].Content(), quoted.Lines[1].Content())
	}
}

func TestQuotedArticleHeaderDoesNotSplit(t *testing.T) {
	parsed := mustParseAct(t, []lines.Line{
		ln("Bevezető.", 0),
		lines.Empty,
		ln("6. § (1) A módosítás a következő:", 0),
		ln("„7. § Idézett fejléc, nem új cikk.", 5),
		ln("Az idézet vége.”", 5),
		lines.Empty,
		ln("7. § Ez viszont valódi cikk.", 0),
	})

	articles := parsed.Articles()
	if len(articles) != 2 {
		t.Fatalf("got %d articles, want 2", len(articles))
	}
	if articles[1].Identifier != "7" {
		t.Errorf("second article identifier = %q", articles[1].Identifier)
	}
	if articles[1].Children[0].Text != "Ez viszont valódi cikk." {
		t.Errorf("second article text = %q", articles[1].Children[0].Text)
	}
}

func TestNonSequentialHeaderIsAbsorbed(t *testing.T) {
	// "(3)" after "(1)" is not the next paragraph, so it must stay inside
	// paragraph (1)'s text as a cross-reference rather than split it.
	parsed := mustParseAct(t, []lines.Line{
		ln("Bevezető.", 0),
		lines.Empty,
		ln("8. § (1) Erre az esetre a", 0),
		ln("(3) bekezdés szerinti szabályt kell alkalmazni.", 0),
	})

	article := parsed.Article("8")
	if len(article.Children) != 1 {
		t.Fatalf("got %d paragraphs, want 1", len(article.Children))
	}
	want := "Erre az esetre a (3) bekezdés szerinti szabályt kell alkalmazni."
	if article.Children[0].Text != want {
		t.Errorf("text = %q, want %q", article.Children[0].Text, want)
	}
}

func TestFirstParagraphMustStartAtOne(t *testing.T) {
	parsed := mustParseAct(t, []lines.Line{
		ln("Bevezető.", 0),
		lines.Empty,
		ln("9. § (2) Nem az első bekezdés.", 0),
	})

	article := parsed.Article("9")
	if len(article.Children) != 1 {
		t.Fatalf("got %d paragraphs, want 1", len(article.Children))
	}
	paragraph := article.Children[0]
	if paragraph.Identifier != "" || paragraph.Text != "(2) Nem az első bekezdés." {
		t.Errorf("paragraph = %+v", paragraph)
	}
}

func TestParseActErrors(t *testing.T) {
	t.Run("unbalanced quote is fatal", func(t *testing.T) {
		_, err := ParseAct("x", "", []lines.Line{
			ln("Bevezető.", 0),
			ln("1. § „lezáratlan idézet", 0),
		})
		var malformed *lines.MalformedQuotingError
		if !errors.As(err, &malformed) {
			t.Errorf("err = %v, want MalformedQuotingError", err)
		}
	})

	t.Run("no articles", func(t *testing.T) {
		_, err := ParseAct("x", "", []lines.Line{ln("Csak szöveg.", 0)})
		if err == nil {
			t.Error("expected an error")
		}
	})

	t.Run("empty article body", func(t *testing.T) {
		_, err := ParseAct("x", "", []lines.Line{
			ln("Bevezető.", 0),
			lines.Empty,
			ln("1. §", 0),
		})
		var structural *StructureError
		if !errors.As(err, &structural) {
			t.Fatalf("err = %v, want StructureError", err)
		}
	})
}

func TestParseBlockAmendmentParagraphs(t *testing.T) {
	meta := &act.BlockAmendment{
		Position: act.Reference{
			Act:       "2016. évi CXXX. törvény",
			Article:   act.Single("8"),
			Paragraph: act.Range("2", "3"),
		},
		ExpectedKind: act.KindParagraph,
	}
	container, err := ParseBlockAmendment(meta, []lines.Line{
		ln("(2) Első új bekezdés.", 5),
		ln("(3) Második új bekezdés.", 5),
	})
	if err != nil {
		t.Fatal(err)
	}
	if container.Metadata != meta {
		t.Error("container must carry the metadata it was built from")
	}
	if len(container.Children) != 2 {
		t.Fatalf("got %d children, want 2", len(container.Children))
	}
	first := container.Children[0].(*act.SubArticleElement)
	if first.Identifier != "2" || first.Text != "Első új bekezdés." {
		t.Errorf("first paragraph = %+v", first)
	}
}

func TestParseBlockAmendmentInsertedArticle(t *testing.T) {
	meta := &act.BlockAmendment{
		Position: act.Reference{
			Act:     "2016. évi CXXX. törvény",
			Article: act.Single("8/A"),
		},
		ExpectedKind: act.KindArticle,
		Inserted:     true,
	}
	container, err := ParseBlockAmendment(meta, []lines.Line{
		ln("8/A. § (1) Beillesztett bekezdés.", 5),
		ln("(2) Második bekezdés.", 5),
	})
	if err != nil {
		t.Fatal(err)
	}
	article := container.Children[0].(*act.Article)
	if article.Identifier != "8/A" {
		t.Errorf("identifier = %q", article.Identifier)
	}
	if len(article.Children) != 2 {
		t.Errorf("got %d paragraphs, want 2", len(article.Children))
	}
}

func TestParseBlockAmendmentMismatchedIdentifier(t *testing.T) {
	meta := &act.BlockAmendment{
		Position: act.Reference{
			Act:     "2016. évi CXXX. törvény",
			Article: act.Single("8"),
		},
		ExpectedKind: act.KindArticle,
	}
	_, err := ParseBlockAmendment(meta, []lines.Line{
		ln("9. § Nem a várt cikk.", 5),
	})
	if err == nil {
		t.Fatal("expected an error for a mismatched identifier")
	}
}
