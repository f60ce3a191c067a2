package model

import (
	"encoding/json"
	"testing"
)

func TestParseGameDate(t *testing.T) {
	tests := []struct {
		in    string
		month string
		ok    bool
	}{
		{"JAN 15, 2025", "January", true},
		{"Feb 02, 2025", "February", true},
		{"2025-03-04", "March", true},
		{"2025-04-05T00:00:00", "April", true},
		{"yesterday", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		got := GameRecord{GameDate: tc.in}.Month()
		if got != tc.month {
			t.Errorf("Month(%q) = %q, want %q", tc.in, got, tc.month)
		}
		if _, ok := ParseGameDate(tc.in); ok != tc.ok {
			t.Errorf("ParseGameDate(%q) ok = %v, want %v", tc.in, ok, tc.ok)
		}
	}
}

func TestOutcomeJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		WL Outcome `json:"wl"`
	}{OutcomeWin})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"wl":"W"}` {
		t.Errorf("got %s", b)
	}

	var v struct {
		WL Outcome `json:"wl"`
	}
	if err := json.Unmarshal([]byte(`{"wl":"L"}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.WL != OutcomeLoss {
		t.Errorf("WL = %v, want L", v.WL)
	}
}

func TestGameRecordsFromResultSet(t *testing.T) {
	var rs ResultSet
	body := `{"name":"TeamGameLog","headers":["GAME_ID","GAME_DATE","MATCHUP","WL","PTS","FG_PCT"],
		"rowSet":[["0022400001","JAN 15, 2025","DEN vs. LAL","W",121,null],["0022400002","JAN 17, 2025","DEN @ LAL","L",99,0.41]]}`
	if err := json.Unmarshal([]byte(body), &rs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	recs := GameRecordsFromResultSet(rs)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].GameID != "0022400001" || recs[0].WL != OutcomeWin {
		t.Errorf("unexpected first record %+v", recs[0])
	}
	if recs[0].PTS == nil || *recs[0].PTS != 121 {
		t.Errorf("PTS not mapped")
	}
	if recs[0].FGPct != nil {
		t.Errorf("null FG_PCT should stay nil")
	}
	if recs[0].REB != nil {
		t.Errorf("absent REB column should stay nil")
	}
	if recs[1].FGPct == nil || *recs[1].FGPct != 0.41 {
		t.Errorf("FG_PCT not mapped")
	}

	if GameRecordsFromResultSet(ResultSet{}) != nil {
		t.Error("empty set should map to nil")
	}
}

func TestResultSetFilter(t *testing.T) {
	rs := ResultSet{Headers: []string{"N"}, Rows: [][]any{{1.0}, {2.0}, {3.0}}}
	odd := rs.Filter(func(i int) bool { return *rs.Float(i, "N") != 2 })
	if odd.Len() != 2 || *odd.Float(1, "n") != 3 {
		t.Errorf("unexpected filter result %+v", odd)
	}
}
