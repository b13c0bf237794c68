package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

var (
	ErrChecksum     = errors.New("world record checksum mismatch")
	ErrSlotNotFound = errors.New("save slot not found")
	ErrInvalidSlot  = errors.New("invalid save slot id")
)

const (
	metadataFile = "metadata.json"
	recordFile   = "world.rec"
	seriesFile   = "series.csv"
)

// Store keeps save slots as directories under baseDir.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type SlotMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Scene     string             `json:"scene"`
	Timestamp time.Time          `json:"timestamp"`
	Tick      int                `json:"tick"`
	Bodies    int                `json:"bodies"`
	Checksum  string             `json:"checksum"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// Series is a sampled metric history: one row per tick, one column per
// metric.
type Series struct {
	Names   []string
	Ticks   []int
	Columns map[string][]float64
}

func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Ticks)
}

func Checksum(record string) string {
	return strconv.FormatUint(xxhash.Sum64String(record), 16)
}

// Save writes a new slot holding the serialized world and, if non-nil, its
// metric history. It fills in meta's ID, timestamp and checksum. The
// metadata file is written last; a slot whose files could not all be
// written is removed.
func (s *Store) Save(meta SlotMetadata, record string, series *Series) (string, error) {
	if meta.Name == "" {
		meta.Name = "world"
	}
	meta.ID = fmt.Sprintf("%s_%s", meta.Name, uuid.NewString()[:8])
	meta.Timestamp = time.Now()
	meta.Checksum = Checksum(record)

	slotDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(slotDir, 0755); err != nil {
		return "", err
	}

	if err := writeSlot(slotDir, meta, record, series); err != nil {
		os.RemoveAll(slotDir)
		return "", err
	}
	return meta.ID, nil
}

func writeSlot(slotDir string, meta SlotMetadata, record string, series *Series) error {
	if err := os.WriteFile(filepath.Join(slotDir, recordFile), []byte(record), 0644); err != nil {
		return err
	}

	if series.Len() > 0 {
		csvFile, err := os.Create(filepath.Join(slotDir, seriesFile))
		if err != nil {
			return err
		}
		if err := writeSeries(csvFile, series); err != nil {
			csvFile.Close()
			return err
		}
		if err := csvFile.Close(); err != nil {
			return err
		}
	}

	metaFile, err := os.Create(filepath.Join(slotDir, metadataFile))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		metaFile.Close()
		return err
	}
	return metaFile.Close()
}

func writeSeries(out io.Writer, series *Series) error {
	w := csv.NewWriter(out)

	header := append([]string{"tick"}, series.Names...)
	if err := w.Write(header); err != nil {
		return err
	}

	for i, tick := range series.Ticks {
		row := []string{strconv.Itoa(tick)}
		for _, name := range series.Names {
			col := series.Columns[name]
			val := 0.0
			if i < len(col) {
				val = col[i]
			}
			row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable slot, newest first.
func (s *Store) List() ([]SlotMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SlotMetadata{}, nil
		}
		return nil, err
	}

	slots := make([]SlotMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.baseDir, entry.Name(), recordFile)); err != nil {
			continue
		}
		slots = append(slots, *meta)
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Timestamp.After(slots[j].Timestamp)
	})
	return slots, nil
}

// checkSlotID rejects ids that would resolve outside the store directory.
func checkSlotID(slotID string) error {
	if slotID == "" || slotID == "." || slotID == ".." || filepath.Base(slotID) != slotID {
		return fmt.Errorf("%w: %q", ErrInvalidSlot, slotID)
	}
	return nil
}

func (s *Store) Load(slotID string) (*SlotMetadata, error) {
	if err := checkSlotID(slotID); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, slotID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrSlotNotFound, slotID)
		}
		return nil, err
	}

	var meta SlotMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// Latest returns the most recently saved slot.
func (s *Store) Latest() (*SlotMetadata, error) {
	slots, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, ErrSlotNotFound
	}
	return &slots[0], nil
}

// LoadRecord returns the slot's serialized world after checking it against
// the stored checksum.
func (s *Store) LoadRecord(slotID string) (string, error) {
	meta, err := s.Load(slotID)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(filepath.Join(s.baseDir, slotID, recordFile))
	if err != nil {
		return "", err
	}

	record := string(data)
	if sum := Checksum(record); sum != meta.Checksum {
		return "", fmt.Errorf("%w: slot %s has %s, expected %s", ErrChecksum, slotID, sum, meta.Checksum)
	}
	return record, nil
}

// LoadSeries reads the slot's metric history. A slot saved without one
// yields an empty series.
func (s *Store) LoadSeries(slotID string) (*Series, error) {
	if err := checkSlotID(slotID); err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(s.baseDir, slotID, seriesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return &Series{Columns: map[string][]float64{}}, nil
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	series := &Series{Columns: map[string][]float64{}}
	if len(records) == 0 {
		return series, nil
	}
	series.Names = records[0][1:]

	for i := 1; i < len(records); i++ {
		record := records[i]

		tick, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("series row %d: %w", i, err)
		}
		series.Ticks = append(series.Ticks, tick)

		for j, name := range series.Names {
			val, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("series row %d column %s: %w", i, name, err)
			}
			series.Columns[name] = append(series.Columns[name], val)
		}
	}

	return series, nil
}
