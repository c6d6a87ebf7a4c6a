package analysis

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestCleanDropsNullAndCoercesStrings(t *testing.T) {
	raw := []RawDataPoint{
		{Label: "A", Value: Number(85)},
		{Label: "B", Value: Text("88")},
		{Label: "C", Value: Null()},
		{Label: "D", Value: Number(85)},
	}
	got := Clean(raw)
	want := []DataPoint{{"A", 85}, {"B", 88}, {"D", 85}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Clean() = %+v, want %+v", got, want)
	}
}

func TestCleanRejectsNonNumericAndNonFinite(t *testing.T) {
	cases := []struct {
		name string
		in   RawValue
		keep bool
		want float64
	}{
		{"plain", Text("42"), true, 42},
		{"padded", Text("  7.5 "), true, 7.5},
		{"scientific", Text("1e2"), true, 100},
		{"negative", Text("-3"), true, -3},
		{"word", Text("delapan"), false, 0},
		{"empty", Text(""), false, 0},
		{"blank", Text("   "), false, 0},
		{"infinity text", Text("Inf"), false, 0},
		{"nan text", Text("NaN"), false, 0},
		{"inf number", Number(math.Inf(1)), false, 0},
		{"locale", Text("1.000,5"), false, 0},
		{"hex", Text("0x1A"), false, 0},
		{"hex float", Text("0x1Ap0"), false, 0},
		{"signed hex", Text("-0X10"), false, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Clean([]RawDataPoint{{Label: "x", Value: c.in}})
			if !c.keep {
				if len(got) != 0 {
					t.Fatalf("expected %v to be dropped, got %+v", c.in, got)
				}
				return
			}
			if len(got) != 1 || got[0].Value != c.want {
				t.Fatalf("expected %v, got %+v", c.want, got)
			}
		})
	}
}

func TestCleanIsIdempotentOnCleanInput(t *testing.T) {
	raw := []RawDataPoint{{"a", Number(1)}, {"b", Number(2)}, {"c", Number(2)}}
	first := Clean(raw)
	again := make([]RawDataPoint, len(first))
	for i, p := range first {
		again[i] = RawDataPoint{Label: p.Label, Value: Number(p.Value)}
	}
	if second := Clean(again); !reflect.DeepEqual(first, second) {
		t.Fatalf("not idempotent: %+v vs %+v", first, second)
	}
}

func TestCleanWithReportCounts(t *testing.T) {
	raw := []RawDataPoint{
		{"Andi", Number(85)},
		{"Dewi", Text("88")},
		{"Fani", Null()},
		{"Zed", Text("n/a")},
	}
	_, rep := CleanWithReport(raw)
	if rep.Total != 4 || rep.Kept != 2 || rep.DroppedNull != 1 || rep.DroppedInvalid != 1 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if rep.Dropped() != 2 {
		t.Fatalf("Dropped() = %d", rep.Dropped())
	}
	if !reflect.DeepEqual(rep.Coerced, []string{"Dewi"}) {
		t.Fatalf("Coerced = %v", rep.Coerced)
	}
}

func TestRawValueYAMLKeepsTags(t *testing.T) {
	src := []byte(`
- label: a
  value: 85
- label: b
  value: "88"
- label: c
  value: null
- label: d
`)
	var pts []RawDataPoint
	if err := yaml.Unmarshal(src, &pts); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	kinds := []RawKind{RawNumber, RawString, RawNull, RawNull}
	for i, k := range kinds {
		if pts[i].Value.Kind != k {
			t.Fatalf("point %d: kind %v, want %v", i, pts[i].Value.Kind, k)
		}
	}
	if pts[0].Value.Num != 85 || pts[1].Value.Str != "88" {
		t.Fatalf("unexpected values: %+v", pts)
	}
	if pts[0].Value.Dirty() || !pts[1].Value.Dirty() || !pts[2].Value.Dirty() {
		t.Fatalf("dirty flags wrong: %+v", pts)
	}
}

func TestRawValueJSON(t *testing.T) {
	in := []RawDataPoint{{"a", Number(1.5)}, {"b", Text("2")}, {"c", Null()}}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `[{"label":"a","value":1.5},{"label":"b","value":"2"},{"label":"c","value":null}]`
	if string(b) != want {
		t.Fatalf("json = %s", b)
	}
	var out []RawDataPoint
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Fatalf("got %+v, want %+v", out, in)
	}
}
