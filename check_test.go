package picosvg

import (
	"reflect"
	"testing"
)

func check(t *testing.T, in string, opts ...Option) []string {
	t.Helper()
	s, err := FromString(in)
	if err != nil {
		t.Fatalf("FromString: %v", err)
	}
	return s.Check(opts...)
}

func TestCheckValid(t *testing.T) {
	got := check(t, `<svg viewBox="0 0 10 10"><defs/><path d="M0,0 H1 V1 H0 Z"/></svg>`)
	if len(got) != 0 {
		t.Errorf("violations = %v, want none", got)
	}
}

func TestCheckBadElement(t *testing.T) {
	got := check(t, `<svg viewBox="0 0 10 10"><defs/><donkey/></svg>`)
	want := []string{"BadElement: /svg[0]/donkey[0]"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("violations = %v, want %v", got, want)
	}
}

func TestCheckMissingDefs(t *testing.T) {
	got := check(t, `<svg viewBox="0 0 10 10"><path d="M0,0 H1 V1 H0 Z"/></svg>`)
	want := []string{"MissingElement: /svg[0]/defs[0]"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("violations = %v, want %v", got, want)
	}
}

func TestCheckSecondDefs(t *testing.T) {
	got := check(t, `<svg viewBox="0 0 10 10"><defs/><defs/></svg>`)
	want := []string{"BadElement: /svg[0]/defs[1]"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("violations = %v, want %v", got, want)
	}
}

func TestCheckDuplicateID(t *testing.T) {
	got := check(t, `<svg viewBox="0 0 10 10"><defs/>`+
		`<path id="not_so_unique" d="M0,0"/>`+
		`<path id="not_so_unique" d="M1,1"/></svg>`)
	want := []string{
		`BadElement: /svg[0]/path[1] reuses id="not_so_unique", first seen at /svg[0]/path[0]`,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("violations = %v, want %v", got, want)
	}
}

func TestCheckMultipleInDocumentOrder(t *testing.T) {
	got := check(t, `<svg viewBox="0 0 10 10"><defs><rect/></defs><donkey/><g><use/></g></svg>`)
	want := []string{
		"BadElement: /svg[0]/defs[0]/rect[0]",
		"BadElement: /svg[0]/donkey[0]",
		"BadElement: /svg[0]/g[0]/use[0]",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("violations = %v, want %v", got, want)
	}
}

func TestCheckGradientGrammar(t *testing.T) {
	got := check(t, `<svg viewBox="0 0 10 10"><defs>`+
		`<linearGradient id="g"><stop offset="0"/><rect/></linearGradient>`+
		`</defs><path d="M0,0" fill="url(#g)"/></svg>`)
	want := []string{"BadElement: /svg[0]/defs[0]/linearGradient[0]/rect[0]"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("violations = %v, want %v", got, want)
	}
}

func TestCheckTextOption(t *testing.T) {
	in := `<svg viewBox="0 0 10 10"><defs/><text>hi</text></svg>`
	if got := check(t, in); len(got) != 1 {
		t.Errorf("violations = %v, want the text element flagged", got)
	}
	if got := check(t, in, AllowText()); len(got) != 0 {
		t.Errorf("violations = %v, want none with AllowText", got)
	}
}
