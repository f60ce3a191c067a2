package analysis

import (
	"math"

	"github.com/pable/go-nba-hotcold/internal/model"
)

// Feature column names, in the order Values emits them.
const (
	ColPTS          = "PTS"
	ColREB          = "REB"
	ColAST          = "AST"
	ColSTL          = "STL"
	ColBLK          = "BLK"
	ColTOV          = "TOV"
	ColFGPct        = "FG_PCT"
	ColFG3Pct       = "FG3_PCT"
	ColFTPct        = "FT_PCT"
	ColPlusMinus    = "PLUS_MINUS"
	ColImpact       = "GAME_IMPACT"
	ColTrueShooting = "TRUE_SHOOTING"
)

var featureColumns = []string{
	ColPTS, ColREB, ColAST, ColSTL, ColBLK, ColTOV,
	ColFGPct, ColFG3Pct, ColFTPct,
	ColPlusMinus, ColImpact, ColTrueShooting,
}

// columnIndex returns the position of name in the feature matrix, or -1.
func columnIndex(name string) int {
	for i, c := range featureColumns {
		if c == name {
			return i
		}
	}
	return -1
}

// FeatureColumns returns the ordered feature column names.
func FeatureColumns() []string {
	return append([]string(nil), featureColumns...)
}

// FeatureVector is the numeric view of one game plus the key columns carried
// through to the assignment output.
type FeatureVector struct {
	GameID   string
	GameDate string
	Matchup  string
	WL       model.Outcome
	Month    string

	PTS, REB, AST, STL, BLK, TOV float64
	FGPct, FG3Pct, FTPct         float64
	PlusMinus                    float64
	Impact                       float64
	TrueShooting                 float64
}

// Values returns the feature values in FeatureColumns() order.
func (v FeatureVector) Values() []float64 {
	return []float64{
		v.PTS, v.REB, v.AST, v.STL, v.BLK, v.TOV,
		v.FGPct, v.FG3Pct, v.FTPct,
		v.PlusMinus, v.Impact, v.TrueShooting,
	}
}

// Features is the extractor output: one vector per input record, in input order.
type Features struct {
	Columns []string
	Vectors []FeatureVector
}

// Len returns the number of rows.
func (f *Features) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Vectors)
}

// Matrix returns the rows as a dense matrix in Columns order. Key columns are
// never part of it.
func (f *Features) Matrix() [][]float64 {
	out := make([][]float64, len(f.Vectors))
	for i, v := range f.Vectors {
		out[i] = v.Values()
	}
	return out
}

// GameImpact is the composite score used to rank clusters.
func GameImpact(pts, reb, ast, stl, blk, tov, plusMinus float64) float64 {
	return pts*1.0 +
		reb*1.2 +
		ast*1.5 +
		stl*2.0 +
		blk*2.0 -
		tov*1.0 +
		plusMinus*0.5
}

// TrueShooting is PTS / (2 * (FGA + 0.44*FTA)), or 0 when the denominator is zero.
func TrueShooting(pts, fga, fta float64) float64 {
	denom := 2 * (fga + 0.44*fta)
	if denom == 0 {
		return 0
	}
	ts := pts / denom
	if math.IsNaN(ts) || math.IsInf(ts, 0) {
		return 0
	}
	return ts
}

// Extractor turns game records into feature vectors.
type Extractor struct {
	columns []string
}

// NewExtractor returns an Extractor with no columns recorded yet.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Columns returns the feature columns produced by the last Extract call.
func (e *Extractor) Columns() []string {
	return append([]string(nil), e.columns...)
}

// Extract builds one FeatureVector per record, preserving order. Missing
// shooting percentages count as 0; any other missing field is an error.
func (e *Extractor) Extract(records []model.GameRecord) (*Features, error) {
	vectors := make([]FeatureVector, 0, len(records))
	for i, r := range records {
		req := []struct {
			name string
			v    *float64
		}{
			{ColPTS, r.PTS}, {ColREB, r.REB}, {ColAST, r.AST},
			{ColSTL, r.STL}, {ColBLK, r.BLK}, {ColTOV, r.TOV},
			{ColPlusMinus, r.PlusMinus}, {"FGA", r.FGA}, {"FTA", r.FTA},
		}
		for _, f := range req {
			if f.v == nil {
				return nil, &MissingFieldError{Field: f.name, Index: i}
			}
		}

		v := FeatureVector{
			GameID:    r.GameID,
			GameDate:  r.GameDate,
			Matchup:   r.Matchup,
			WL:        r.WL,
			Month:     r.Month(),
			PTS:       *r.PTS,
			REB:       *r.REB,
			AST:       *r.AST,
			STL:       *r.STL,
			BLK:       *r.BLK,
			TOV:       *r.TOV,
			FGPct:     orZero(r.FGPct),
			FG3Pct:    orZero(r.FG3Pct),
			FTPct:     orZero(r.FTPct),
			PlusMinus: *r.PlusMinus,
		}
		v.Impact = GameImpact(v.PTS, v.REB, v.AST, v.STL, v.BLK, v.TOV, v.PlusMinus)
		v.TrueShooting = TrueShooting(v.PTS, *r.FGA, *r.FTA)
		vectors = append(vectors, v)
	}

	e.columns = FeatureColumns()
	return &Features{Columns: e.Columns(), Vectors: vectors}, nil
}

func orZero(p *float64) float64 {
	if p == nil || math.IsNaN(*p) {
		return 0
	}
	return *p
}
