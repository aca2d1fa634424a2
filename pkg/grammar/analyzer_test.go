package grammar

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/coolbeans/lexhun/pkg/act"
)

// ref builds a reference from an act identifier and up to four structural
// parts: a string is a single identifier, a [2]string a range, nil absent.
func ref(actID string, parts ...any) act.Reference {
	r := act.Reference{Act: actID}
	for i, p := range parts {
		var part act.IDPart
		switch v := p.(type) {
		case string:
			part = act.Single(v)
		case [2]string:
			part = act.Range(v[0], v[1])
		case nil:
		default:
			panic("unsupported part")
		}
		switch i {
		case 0:
			r.Article = part
		case 1:
			r.Paragraph = part
		case 2:
			r.Point = part
		case 3:
			r.Subpoint = part
		}
	}
	return r
}

func analyzed(t *testing.T, text string) Analysis {
	t.Helper()
	return NewAnalyzer(nil).Analyze(text)
}

func plainRefs(a Analysis) []act.Reference {
	refs := make([]act.Reference, 0, len(a.References))
	for _, r := range a.References {
		refs = append(refs, r.Reference)
	}
	return refs
}

func TestReferenceRecognition(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []act.Reference
	}{
		{
			name: "article replacement",
			text: "A hegyközségekről szóló 2012. évi CCXIX. törvény 28. §-a helyébe a következő rendelkezés lép:",
			want: []act.Reference{ref("2012. évi CCXIX. törvény", "28")},
		},
		{
			name: "point insertion into article",
			text: "A Gyvt. 5. §-a a következő ny) ponttal egészül ki:",
			want: []act.Reference{ref("Gyvt.", "5", nil, "ny")},
		},
		{
			name: "paragraph range insertion",
			text: "A Víziközmű tv. 63. §-a a következő (5)–(7) bekezdéssel egészül ki:",
			want: []act.Reference{ref("Víziközmű tv.", "63", [2]string{"5", "7"})},
		},
		{
			name: "article insertion without anchor",
			text: "Az Efo. tv. a következő 8/A. §-sal egészül ki:",
			want: []act.Reference{ref("Efo. tv.", "8/A")},
		},
		{
			name: "article list with point enumeration",
			text: "A 229. §, a 231. §, a 233. § (1) bekezdés a) és c) pontja, valamint a 233/B. § 2015. január 1-jén lép hatályba.",
			want: []act.Reference{
				ref("", "229"),
				ref("", "231"),
				ref("", "233", "1", "a"),
				ref("", "233", "1", "c"),
				ref("", "233/B"),
			},
		},
		{
			name: "enumeration continued at paragraph level",
			text: "A 233. § (1) bekezdés a) és c) pontja, (2) bekezdés d) és f) pontja szerint kell eljárni.",
			want: []act.Reference{
				ref("", "233", "1", "a"),
				ref("", "233", "1", "c"),
				ref("", "233", "2", "d"),
				ref("", "233", "2", "f"),
			},
		},
		{
			name: "conjunction closes the article before a paragraph list",
			text: "A 6. § és a 8. §, valamint a (2) bekezdés szerint kell eljárni.",
			want: []act.Reference{
				ref("", "6"),
				ref("", "8"),
				ref("", "8", "2"),
			},
		},
		{
			name: "adjacent paragraphs coalesce",
			text: "Ha az (1) és a (2) bekezdésben meghatározott határidőt elmulasztják, az igény elvész.",
			want: []act.Reference{ref("", nil, [2]string{"1", "2"})},
		},
		{
			name: "current article shorthand",
			text: "E § (2) bekezdés d) pontjában foglaltakat kell alkalmazni.",
			want: []act.Reference{ref("", nil, "2", "d")},
		},
		{
			name: "subpoint without paragraph",
			text: "Amely a Tbj. 4. § k) pont 2. alpontja szerint járulékalapot képez.",
			want: []act.Reference{ref("Tbj.", "4", nil, "k", "2")},
		},
		{
			name: "article ranges joined over section marks",
			text: "Hatályát veszti a Tv. 8/A. §–8/B. §-a, 16/A. §–16/B. §-a, és 17/A. § (1) és (3) bekezdése.",
			want: []act.Reference{
				ref("Tv.", [2]string{"8/A", "8/B"}),
				ref("Tv.", [2]string{"16/A", "16/B"}),
				ref("Tv.", "17/A", "1"),
				ref("Tv.", "17/A", "3"),
			},
		},
		{
			name: "constitutional article is ignored",
			text: "Tilos az Alaptörvény P) cikk (2) bekezdése szerinti mértéket meghaladó igénybevétel.",
			want: nil,
		},
		{
			name: "identifier without dot is not a reference",
			text: "A 2006. évi X. törvény 25 §-a.",
			want: nil,
		},
		{
			name: "insertion sentence without colon stays split",
			text: "Az Eht. 188. §-a a következő 31/a. ponttal egészül ki.",
			want: []act.Reference{
				ref("Eht.", "188"),
				ref("", nil, nil, "31/a"),
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := plainRefs(analyzed(t, tc.text))
			if len(got) == 0 {
				got = nil
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("references mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReferenceSpans(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "first and last unit cover the whole compound",
			text: "A 233. § (1) bekezdés a) és c) pontja szerint kell eljárni.",
			want: []string{"233. § (1) bekezdés a)", "c) pontja"},
		},
		{
			name: "insertion keeps both compounds",
			text: "Az Eht. 188. §-a a következő 31/a. ponttal egészül ki.",
			want: []string{"188. §-a", "31/a. ponttal"},
		},
		{
			name: "merged block amendment target",
			text: "A Gyvt. 5. §-a a következő ny) ponttal egészül ki:",
			want: []string{"5. §-a a következő ny) ponttal"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			analysis := analyzed(t, tc.text)
			var got []string
			for _, r := range analysis.References {
				got = append(got, tc.text[r.Start:r.End])
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("spans mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestActReferences(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "full citation",
			text: "A hegyközségekről szóló 2012. évi CCXIX. törvény 28. §-a helyébe a következő rendelkezés lép:",
			want: []string{"2012. évi CCXIX. törvény"},
		},
		{
			name: "tv suffix normalized",
			text: "A 2013. évi V. tv. 3:319. §-a szerint.",
			want: []string{"2013. évi V. törvény"},
		},
		{
			name: "abbreviated mentions without structural reference",
			text: "A jogi személynek a Ptk. rendelkezéseit a döntéstől, de a Ptk. hatálybalépését követően kell alkalmaznia.",
			want: []string{"Ptk.", "Ptk."},
		},
		{
			name: "citation survives a bad article",
			text: "A 2006. évi X. törvény 25 §-a.",
			want: []string{"2006. évi X. törvény"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			analysis := analyzed(t, tc.text)
			var got []string
			for _, r := range analysis.ActReferences {
				got = append(got, r.Reference.Act)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("act references mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAbbreviationCapture(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []act.ActIDAbbreviation
	}{
		{
			name: "plain definition",
			text: "A hegyközségekről szóló 2012. évi CLXXXV. törvény (a továbbiakban: Hktv.) 28. §-a helyébe a következő rendelkezés lép:",
			want: []act.ActIDAbbreviation{{Abbreviation: "Hktv.", ActID: "2012. évi CLXXXV. törvény"}},
		},
		{
			name: "suffixed citation",
			text: "A Polgári Törvénykönyvről szóló 2013. évi V. törvénnyel (a továbbiakban: Ptk.) összefüggő feladatokról.",
			want: []act.ActIDAbbreviation{{Abbreviation: "Ptk.", ActID: "2013. évi V. törvény"}},
		},
		{
			name: "trailing törvény dropped",
			text: "A pénzügyi tranzakciós illetékről szóló 2012. évi CXVI. törvény (a továbbiakban: Pti. törvény) 7. §-a szerint.",
			want: []act.ActIDAbbreviation{{Abbreviation: "Pti.", ActID: "2012. évi CXVI. törvény"}},
		},
		{
			name: "tv suffix kept",
			text: "A víziközmű-szolgáltatásról szóló 2011. évi CCIX. törvény (a továbbiakban: Víziközmű tv.) 63. §-a a következő (5) bekezdéssel egészül ki:",
			want: []act.ActIDAbbreviation{{Abbreviation: "Víziközmű tv.", ActID: "2011. évi CCIX. törvény"}},
		},
		{
			name: "definition without colon",
			text: "A szabálysértésekről szóló 2012. évi II. törvény (a továbbiakban Szabs. tv.) 29. §-a szerint.",
			want: []act.ActIDAbbreviation{{Abbreviation: "Szabs. tv.", ActID: "2012. évi II. törvény"}},
		},
		{
			name: "lowercase definition ignored",
			text: "Az ellátások (e § alkalmazásában a továbbiakban együtt: anyasági ellátás) folyósítása szünetel.",
			want: nil,
		},
		{
			name: "definition repeating the citation ignored",
			text: "A Büntető Törvénykönyvről szóló 1978. évi IV. törvény (a továbbiakban: 1978. évi IV. törvény) 22. §-a szerint.",
			want: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := analyzed(t, tc.text).Abbreviations
			if len(got) == 0 {
				got = nil
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("abbreviations mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEnforcementDates(t *testing.T) {
	p := func(r act.Reference) *act.Reference { return &r }
	cases := []struct {
		name string
		text string
		want []act.Event
	}{
		{
			name: "whole act on absolute date",
			text: "Ez a törvény 2013. július 1-jén lép hatályba.",
			want: []act.Event{act.EnforcementDate{Effective: act.AbsoluteDate{Year: 2013, Month: 7, Day: 1}}},
		},
		{
			name: "exception clause excluded from position",
			text: "Ez a törvény – a (2) bekezdésben foglalt kivétellel – 2013. augusztus 1-jén lép hatályba.",
			want: []act.Event{act.EnforcementDate{Effective: act.AbsoluteDate{Year: 2013, Month: 8, Day: 1}}},
		},
		{
			name: "day after publication",
			text: "Ez a törvény a kihirdetését követő napon lép hatályba.",
			want: []act.Event{act.EnforcementDate{Effective: act.DaysAfterPublication{Days: 1}}},
		},
		{
			name: "ordinal day after publication",
			text: "Ez a törvény a kihirdetését követő nyolcadik napon lép hatályba.",
			want: []act.Event{act.EnforcementDate{Effective: act.DaysAfterPublication{Days: 8}}},
		},
		{
			name: "numeral day after publication",
			text: "E törvény a kihirdetését követő 8. napon lép hatályba.",
			want: []act.Event{act.EnforcementDate{Effective: act.DaysAfterPublication{Days: 8}}},
		},
		{
			name: "day of month after publication",
			text: "E törvény a kihirdetését követő hónap első napján lép hatályba.",
			want: []act.Event{act.EnforcementDate{Effective: act.DayInMonthAfterPublication{Months: 1, Day: 1}}},
		},
		{
			name: "date given with napján",
			text: "Ez a törvény 2017. június 30. napján lép hatályba.",
			want: []act.Event{act.EnforcementDate{Effective: act.AbsoluteDate{Year: 2017, Month: 6, Day: 30}}},
		},
		{
			name: "one event per listed position",
			text: "Az 50–51. §, az 53. § és az 58. § 2014. január 1-jén lép hatályba.",
			want: []act.Event{
				act.EnforcementDate{Position: p(ref("", [2]string{"50", "51"})), Effective: act.AbsoluteDate{Year: 2014, Month: 1, Day: 1}},
				act.EnforcementDate{Position: p(ref("", "53")), Effective: act.AbsoluteDate{Year: 2014, Month: 1, Day: 1}},
				act.EnforcementDate{Position: p(ref("", "58")), Effective: act.AbsoluteDate{Year: 2014, Month: 1, Day: 1}},
			},
		},
		{
			name: "positions resolved across the enumeration",
			text: "A 233. § (1) bekezdés a) és c) pontja, (2) bekezdés d) pontja 2015. január 2-án lép hatályba.",
			want: []act.Event{
				act.EnforcementDate{Position: p(ref("", "233", "1", "a")), Effective: act.AbsoluteDate{Year: 2015, Month: 1, Day: 2}},
				act.EnforcementDate{Position: p(ref("", "233", "1", "c")), Effective: act.AbsoluteDate{Year: 2015, Month: 1, Day: 2}},
				act.EnforcementDate{Position: p(ref("", "233", "2", "d")), Effective: act.AbsoluteDate{Year: 2015, Month: 1, Day: 2}},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := analyzed(t, tc.text).Events
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("events mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTextAmendments(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []act.Event
	}{
		{
			name: "single replacement",
			text: "Az Flt. 30. § (1) bekezdés a) pontjában az „a 25. § (1) bekezdésének d) pontjában” szövegrész helyébe az „a 25. § (1) bekezdés d) pontjában” szöveg lép.",
			want: []act.Event{act.TextAmendment{
				Position:    ref("Flt.", "30", "1", "a"),
				Original:    "a 25. § (1) bekezdésének d) pontjában",
				Replacement: "a 25. § (1) bekezdés d) pontjában",
			}},
		},
		{
			name: "positions and pairs cross product",
			text: "A Btk. 294. § (1) bekezdésében és 296. § (1) bekezdésében az „előnyt” szövegrész helyébe a „vagyoni előnyt” szövegrész, az „előny” szövegrész helyébe a „vagyoni előny” szöveg lép.",
			want: []act.Event{
				act.TextAmendment{Position: ref("Btk.", "294", "1"), Original: "előnyt", Replacement: "vagyoni előnyt"},
				act.TextAmendment{Position: ref("Btk.", "294", "1"), Original: "előny", Replacement: "vagyoni előny"},
				act.TextAmendment{Position: ref("Btk.", "296", "1"), Original: "előnyt", Replacement: "vagyoni előnyt"},
				act.TextAmendment{Position: ref("Btk.", "296", "1"), Original: "előny", Replacement: "vagyoni előny"},
			},
		},
		{
			name: "nested quotes in the fragment",
			text: "A Teszt tv. 1. §-ában az „idézőjelek „idézőjelekben” jellegű használata” szövegrész helyébe az „előfordul” szöveg lép.",
			want: []act.Event{act.TextAmendment{
				Position:    ref("Teszt tv.", "1"),
				Original:    "idézőjelek „idézőjelekben” jellegű használata",
				Replacement: "előfordul",
			}},
		},
		{
			name: "surrounding spaces trimmed",
			text: "A Teszt tv. 1. §-ában a „ na ne ” szövegrész helyébe a „na de” szöveg lép.",
			want: []act.Event{act.TextAmendment{
				Position:    ref("Teszt tv.", "1"),
				Original:    "na ne",
				Replacement: "na de",
			}},
		},
		{
			name: "helyett variant",
			text: "A Btk. 283. § (2) bekezdése a „bűncselekmény” szövegrész helyett a „bűncselekmény vagy tulajdon elleni szabálysértés” szöveggel lép hatályba.",
			want: []act.Event{act.TextAmendment{
				Position:    ref("Btk.", "283", "2"),
				Original:    "bűncselekmény",
				Replacement: "bűncselekmény vagy tulajdon elleni szabálysértés",
			}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := analyzed(t, tc.text).Events
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("events mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRepeals(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []act.Event
	}{
		{
			name: "whole provision",
			text: "Hatályát veszti a Polgári Törvénykönyvről szóló 2013. évi V. törvény 3:319. §-a.",
			want: []act.Event{act.Repeal{Position: ref("2013. évi V. törvény", "3:319")}},
		},
		{
			name: "text fragment not entering into force",
			text: "Nem lép hatályba az Eat. 105. §-ában az „és az according szövegrésze” szövegrész.",
			want: []act.Event{act.Repeal{
				Position: ref("Eat.", "105"),
				Text:     "és az according szövegrésze",
			}},
		},
		{
			name: "fragments times positions",
			text: "A Tv. 16. § (4) bekezdésében az „a)–c)” szövegrész, valamint az „és m)” szövegrész nem lép hatályba.",
			want: []act.Event{
				act.Repeal{Position: ref("Tv.", "16", "4"), Text: "a)–c)"},
				act.Repeal{Position: ref("Tv.", "16", "4"), Text: "és m)"},
			},
		},
		{
			name: "positions expanded per unit",
			text: "Hatályát veszti az Eva tv. 2. § (3) bekezdés a) és e) pontjában az „ideértve a külföldit is” szövegrész.",
			want: []act.Event{
				act.Repeal{Position: ref("Eva tv.", "2", "3", "a"), Text: "ideértve a külföldit is"},
				act.Repeal{Position: ref("Eva tv.", "2", "3", "e"), Text: "ideértve a külföldit is"},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := analyzed(t, tc.text).Events
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("events mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBlockAmendments(t *testing.T) {
	subtitle := act.StructuralSubtitle
	chapter := act.StructuralChapter
	cases := []struct {
		name string
		text string
		want []act.Event
	}{
		{
			name: "article replacement",
			text: "A hegyközségekről szóló 2012. évi CCXIX. törvény 28. §-a helyébe a következő rendelkezés lép:",
			want: []act.Event{act.BlockAmendment{
				Position:     ref("2012. évi CCXIX. törvény", "28"),
				ExpectedKind: act.KindArticle,
			}},
		},
		{
			name: "point insertion",
			text: "A Gyvt. 5. §-a a következő ny) ponttal egészül ki:",
			want: []act.Event{act.BlockAmendment{
				Position:     ref("Gyvt.", "5", nil, "ny"),
				ExpectedKind: act.KindAlphabeticPoint,
				Inserted:     true,
			}},
		},
		{
			name: "replacement and insertion coalesce into a range",
			text: "Az Eht. 35. § (4) bekezdése helyébe a következő rendelkezés lép, és a § a következő (5) bekezdéssel egészül ki:",
			want: []act.Event{act.BlockAmendment{
				Position:     ref("Eht.", "35", [2]string{"4", "5"}),
				ExpectedKind: act.KindParagraph,
			}},
		},
		{
			name: "paragraph pair extended by insertion",
			text: "A Ptk. 6:130. § (2) és (3) bekezdése helyébe a következő rendelkezések lépnek, és a § a következő (4) bekezdéssel egészül ki:",
			want: []act.Event{act.BlockAmendment{
				Position:     ref("Ptk.", "6:130", [2]string{"2", "4"}),
				ExpectedKind: act.KindParagraph,
			}},
		},
		{
			name: "subtitle inserted before an article",
			text: "A Btk. a 300. §-t megelőzően a következő alcímmel egészül ki:",
			want: []act.Event{act.BlockAmendment{
				Position:     ref("Btk.", "300"),
				ExpectedKind: act.KindArticle,
				Structural:   &subtitle,
				Inserted:     true,
			}},
		},
		{
			name: "article inserted under a named subtitle",
			text: "A Btk. Terrorcselekmény alcíme a következő 316/A. §-sal egészül ki:",
			want: []act.Event{act.BlockAmendment{
				Position:     ref("Btk.", "316/A"),
				ExpectedKind: act.KindArticle,
				Inserted:     true,
			}},
		},
		{
			name: "chapters replaced wholesale",
			text: "A szövetkezetekről szóló 2006. évi X. törvény I. és II. Fejezete helyébe a következő I. és II. Fejezet lép:",
			want: []act.Event{act.BlockAmendment{
				Position:   ref("2006. évi X. törvény"),
				Structural: &chapter,
			}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := analyzed(t, tc.text).Events
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("events mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
