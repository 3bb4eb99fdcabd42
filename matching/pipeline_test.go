package matching

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipelineConfig() Config {
	return Config{Threshold: 0.80, Epsilon: 0.05, Workers: 4}
}

func TestPipelineRosterEmpty(t *testing.T) {
	pipeline := NewPipeline(pipelineConfig(), nil)

	sigs := []ExtractedSignature{signature("John", "Smith", "100", "Main", "St", "")}
	_, _, err := pipeline.Run(sigs, nil)

	require.ErrorIs(t, err, ErrRosterEmpty)
}

func TestPipelineExtractionEmpty(t *testing.T) {
	pipeline := NewPipeline(pipelineConfig(), nil)

	roll := []VoterRecord{voter("v-1", "John", "Smith", "100", "Main", "St", "")}
	table, stats, err := pipeline.Run(nil, roll)

	require.NoError(t, err)
	assert.Empty(t, table)
	assert.True(t, stats.ExtractionEmpty)
	assert.Zero(t, stats.Total)
}

func TestPipelineEndToEnd(t *testing.T) {
	pipeline := NewPipeline(pipelineConfig(), nil)

	roll := []VoterRecord{
		voter("v-1", "John", "Smith", "100", "Main", "St", ""),
		voter("v-2", "Jane", "Smith", "102", "Main", "St", ""),
		voter("v-3", "Robert", "Jones", "100", "Elm", "Ave", ""),
	}
	sigs := []ExtractedSignature{
		signature("Jon", "Smith", "100", "Main", "St", ""),      // nickname variant of v-1
		signature("Zelda", "Quixote", "999", "Nowhere", "", ""), // on no roll
		signature("Robert", "Jones", "100", "Elm", "Ave", ""),   // exact v-3
	}

	table, stats, err := pipeline.Run(sigs, roll)
	require.NoError(t, err)
	require.Len(t, table, 3)

	assert.Equal(t, DecisionMatched, table[0].Decision)
	assert.Equal(t, "v-1", table[0].VoterID)

	assert.Equal(t, DecisionUnmatched, table[1].Decision)

	assert.Equal(t, DecisionMatched, table[2].Decision)
	assert.Equal(t, "v-3", table[2].VoterID)
	assert.Equal(t, 1.0, table[2].Score)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Matched)
	assert.Equal(t, 1, stats.Unmatched)
	assert.False(t, stats.ExtractionEmpty)
}

func TestPipelinePhoneticFallbackRecovery(t *testing.T) {
	pipeline := NewPipeline(pipelineConfig(), nil)

	roll := []VoterRecord{voter("v-1", "John", "Smith", "100", "Main", "St", "")}
	// A misread street number misses the primary block; the phonetic
	// fallback still surfaces the voter, and the number mismatch is then
	// priced into the score
	sigs := []ExtractedSignature{signature("John", "Smyth", "109", "Main", "St", "")}

	table, _, err := pipeline.Run(sigs, roll)
	require.NoError(t, err)
	require.Len(t, table, 1)

	assert.Equal(t, DecisionUnmatched, table[0].Decision)
	assert.Greater(t, table[0].Score, 0.0)
	assert.NotEmpty(t, table[0].FieldScores)
}

func TestPipelineOrderPreservedUnderParallelism(t *testing.T) {
	pipeline := NewPipeline(Config{Threshold: 0.80, Epsilon: 0.05, Workers: 8}, nil)

	roll := make([]VoterRecord, 0, 50)
	sigs := make([]ExtractedSignature, 0, 500)
	for i := 0; i < 50; i++ {
		last := fmt.Sprintf("Family%02d", i)
		num := fmt.Sprintf("%d", 100+i)
		roll = append(roll, voter(fmt.Sprintf("v-%02d", i), "Alex", last, num, "Main", "St", ""))
	}
	for i := 0; i < 500; i++ {
		v := roll[i%len(roll)]
		sig := signature(v.FirstName, v.LastName, v.StreetNumber, v.StreetName, v.StreetType, "")
		sig.Page = i/20 + 1
		sig.Line = i%20 + 1
		sigs = append(sigs, sig)
	}

	table, stats, err := pipeline.Run(sigs, roll)
	require.NoError(t, err)
	require.Len(t, table, len(sigs))
	assert.Equal(t, len(sigs), stats.Matched)

	for i, row := range table {
		assert.Equal(t, sigs[i].Page, row.Signature.Page, "row %d out of order", i)
		assert.Equal(t, sigs[i].Line, row.Signature.Line, "row %d out of order", i)
		assert.Equal(t, roll[i%len(roll)].ID, row.VoterID, "row %d matched the wrong voter", i)
	}
}

func TestPipelineDeterministicAcrossRuns(t *testing.T) {
	roll := []VoterRecord{
		voter("v-1", "John", "Smith", "100", "Main", "St", "N"),
		voter("v-2", "John", "Smith", "100", "Main", "St", "S"),
		voter("v-3", "Jane", "Doe", "42", "Oak", "Ave", ""),
	}
	sigs := []ExtractedSignature{
		signature("John", "Smith", "100", "Main", "St", ""),
		signature("Jane", "Doe", "42", "Oak", "Ave", ""),
	}

	first, firstStats, err := NewPipeline(pipelineConfig(), nil).Run(sigs, roll)
	require.NoError(t, err)

	for run := 0; run < 3; run++ {
		again, againStats, err := NewPipeline(pipelineConfig(), nil).Run(sigs, roll)
		require.NoError(t, err)
		assert.Equal(t, first, again)
		assert.Equal(t, firstStats, againStats)
	}
}

func TestPipelineSnapshotIsolation(t *testing.T) {
	roll := []VoterRecord{
		voter("v-1", "John", "Smith", "100", "Main", "St", ""),
		voter("v-2", "Jane", "Doe", "42", "Oak", "Ave", ""),
	}
	sigs := []ExtractedSignature{signature("John", "Smith", "100", "Main", "St", "")}

	pipeline := NewPipeline(pipelineConfig(), nil)
	table, _, err := pipeline.Run(sigs, roll)
	require.NoError(t, err)

	// Mutating the caller's slice must not disturb the returned table
	roll[0] = voter("v-9", "Someone", "Else", "1", "Other", "Rd", "")
	assert.Equal(t, "v-1", table[0].VoterID)
}

func TestPipelineProgressEvents(t *testing.T) {
	events := make(chan ProgressEvent, 64)
	pipeline := NewPipeline(pipelineConfig(), events)

	roll := []VoterRecord{voter("v-1", "John", "Smith", "100", "Main", "St", "")}
	sigs := []ExtractedSignature{signature("John", "Smith", "100", "Main", "St", "")}

	_, _, err := pipeline.Run(sigs, roll)
	require.NoError(t, err)
	close(events)

	stages := make(map[string]bool)
	for ev := range events {
		stages[ev.Stage] = true
	}
	assert.True(t, stages["indexing"])
	assert.True(t, stages["matching"])
	assert.True(t, stages["done"])
}
