package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// AgentConfig describes one agent taking part in an experiment.
type AgentConfig struct {
	ID           int           `yaml:"id" validate:"gte=0"`
	Name         string        `yaml:"name" validate:"required"`
	Iterations   int           `yaml:"iterations" validate:"gte=0"`
	Duration     time.Duration `yaml:"duration" validate:"gte=0"`
	Exploration  float64       `yaml:"exploration" validate:"gte=0"`
	RolloutDepth int           `yaml:"rollout_depth" validate:"gte=0"`
	Evaluation   string        `yaml:"evaluation" validate:"omitempty,oneof=score distance"`
}

type GameRecord struct {
	ID      int
	AgentID int // AgentConfig.ID
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

// MoveRow is the columnar form of a MoveRecord.
type MoveRow struct {
	Game       int32  `parquet:"game"`
	Step       int32  `parquet:"step"`
	Action     string `parquet:"action,dict"`
	Score      int32  `parquet:"score"`
	Strategy   string `parquet:"strategy,dict"`
	DurationNs int64  `parquet:"duration_ns"`
	Iterations int32  `parquet:"iterations"`
	Expansions int32  `parquet:"expansions"`
	Failures   int32  `parquet:"failures"`
}

type Writer struct {
	baseDir string
}

// NewWriter creates root/name/<timestamp> to hold the results of one experiment run.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("2006-01-02T15-04-05.000Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "name", "iterations", "duration", "exploration", "rollout_depth", "evaluation"}
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Name,
			strconv.Itoa(config.Iterations),
			config.Duration.String(),
			strconv.FormatFloat(config.Exploration, 'f', -1, 64),
			strconv.Itoa(config.RolloutDepth),
			config.Evaluation,
		})
	}
	return w.writeCSV("agent_configs.csv", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "agent_id", "agent", "layout", "seed", "won", "lost", "score", "moves", "start_time", "end_time", "duration"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.Itoa(record.AgentID),
			record.Agent,
			record.Layout,
			strconv.FormatInt(record.Seed, 10),
			strconv.FormatBool(record.Won),
			strconv.FormatBool(record.Lost),
			strconv.Itoa(record.Score),
			strconv.Itoa(record.TotalMoves),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
		})
	}
	return w.writeCSV("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "action", "score", "strategy", "duration", "iterations", "expansions", "failures"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Step),
			record.Action,
			strconv.Itoa(record.Score),
			record.Strategy,
			record.Duration.String(),
			strconv.Itoa(record.Iterations),
			strconv.Itoa(record.Expansions),
			strconv.Itoa(record.Failures),
		})
	}
	return w.writeCSV("move_records.csv", header, rows)
}

// WriteMoveParquet stores the move records as zstd compressed parquet.
func (w *Writer) WriteMoveParquet(records []MoveRecord) error {
	rows := make([]MoveRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, MoveRow{
			Game:       int32(record.Game),
			Step:       int32(record.Step),
			Action:     record.Action,
			Score:      int32(record.Score),
			Strategy:   record.Strategy,
			DurationNs: record.Duration.Nanoseconds(),
			Iterations: int32(record.Iterations),
			Expansions: int32(record.Expansions),
			Failures:   int32(record.Failures),
		})
	}

	// Write to a temp file and rename so readers never see a partial file
	path := filepath.Join(w.baseDir, "move_records.parquet")
	tmpPath := path + ".tmp"
	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "move_record_v1"),
	); err != nil {
		return fmt.Errorf("failed to write move records parquet: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename move records parquet: %w", err)
	}
	return nil
}

func (w *Writer) writeCSV(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	err = writer.WriteAll(rows)
	if err != nil {
		return fmt.Errorf("failed to write %s rows: %w", name, err)
	}
	return nil
}
