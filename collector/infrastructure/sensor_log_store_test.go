package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	collectorDomain "github.com/samoilenko/sensorlog/collector/domain"
)

func newMemStore(tb testing.TB) (*SensorLogStore, afero.Fs, *mockLogger) {
	tb.Helper()
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("/data", 0755); err != nil {
		tb.Fatalf("Failed to create data dir: %v", err)
	}
	logger := &mockLogger{}
	return NewSensorLogStore(fs, "/data", logger), fs, logger
}

func newOsStore(tb testing.TB) (*SensorLogStore, string) {
	tb.Helper()
	dir := tb.TempDir()
	return NewSensorLogStore(afero.NewOsFs(), collectorDomain.DataDir(dir), &mockLogger{}), dir
}

func record(i int) collectorDomain.LogRecord {
	return collectorDomain.LogRecord{
		Timestamp: fmt.Sprintf("2024-01-01T00:%02d:00", i),
		Reading:   fmt.Sprintf("%d.5", i),
	}
}

func writeRecords(tb testing.TB, store *SensorLogStore, id collectorDomain.SensorID, n int) []collectorDomain.LogRecord {
	tb.Helper()
	written := make([]collectorDomain.LogRecord, 0, n)
	for i := 0; i < n; i++ {
		r := record(i)
		if err := store.Write(context.Background(), id, r); err != nil {
			tb.Fatalf("Write failed: %v", err)
		}
		written = append(written, r)
	}
	return written
}

func TestSensorLogStore_Path(t *testing.T) {
	store, _, _ := newMemStore(t)
	if got := store.Path("A1"); got != filepath.Join("/data", "sensor_A1.log") {
		t.Errorf("unexpected path %q", got)
	}
}

func TestSensorLogStore_RoundTrip(t *testing.T) {
	store, _, _ := newMemStore(t)
	written := writeRecords(t, store, "A1", 5)

	got, err := store.ReadTail(context.Background(), "A1", 5)
	if err != nil {
		t.Fatalf("ReadTail failed: %v", err)
	}
	if !reflect.DeepEqual(got, written) {
		t.Errorf("expected %v, got %v", written, got)
	}
}

func TestSensorLogStore_BoundedTail(t *testing.T) {
	store, _, _ := newMemStore(t)
	written := writeRecords(t, store, "A1", 10)

	for _, k := range []int{1, 3, 9} {
		got, err := store.ReadTail(context.Background(), "A1", k)
		if err != nil {
			t.Fatalf("ReadTail(%d) failed: %v", k, err)
		}
		if !reflect.DeepEqual(got, written[len(written)-k:]) {
			t.Errorf("ReadTail(%d): expected %v, got %v", k, written[len(written)-k:], got)
		}
	}
}

func TestSensorLogStore_OverRequest(t *testing.T) {
	store, _, _ := newMemStore(t)
	written := writeRecords(t, store, "A1", 3)

	got, err := store.ReadTail(context.Background(), "A1", 1000000)
	if err != nil {
		t.Fatalf("ReadTail failed: %v", err)
	}
	if !reflect.DeepEqual(got, written) {
		t.Errorf("expected all %d records, got %v", len(written), got)
	}
}

func TestSensorLogStore_ZeroCount(t *testing.T) {
	store, _, _ := newMemStore(t)
	writeRecords(t, store, "A1", 3)

	got, err := store.ReadTail(context.Background(), "A1", 0)
	if err != nil {
		t.Fatalf("ReadTail failed: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected an empty non-nil result, got %#v", got)
	}
}

func TestSensorLogStore_NotFound(t *testing.T) {
	store, _, _ := newMemStore(t)

	for _, count := range []int{0, 1, 10} {
		_, err := store.ReadTail(context.Background(), "missing", count)
		if !errors.Is(err, collectorDomain.ErrSensorNotFound) {
			t.Errorf("count %d: expected ErrSensorNotFound, got %v", count, err)
		}
	}
}

func TestSensorLogStore_EmptyLog(t *testing.T) {
	store, fs, _ := newMemStore(t)
	if err := afero.WriteFile(fs, store.Path("empty"), nil, 0644); err != nil {
		t.Fatalf("Failed to create empty log: %v", err)
	}

	got, err := store.ReadTail(context.Background(), "empty", 5)
	if err != nil {
		t.Fatalf("expected no error for an existing empty log, got %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no records, got %v", got)
	}
}

func TestSensorLogStore_TruncatedTail(t *testing.T) {
	store, fs, logger := newMemStore(t)
	written := writeRecords(t, store, "A1", 3)

	f, err := fs.OpenFile(store.Path("A1"), os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("Failed to open log: %v", err)
	}
	// a length prefix announcing 10 bytes followed by only 3 of them
	if _, err := f.Write([]byte{0x0a, 0x00, 'a', 'b', 'c'}); err != nil {
		t.Fatalf("Failed to append partial record: %v", err)
	}
	_ = f.Close()

	got, err := store.ReadTail(context.Background(), "A1", 2)
	if err != nil {
		t.Fatalf("expected truncated log to be readable, got %v", err)
	}
	if !reflect.DeepEqual(got, written[1:]) {
		t.Errorf("expected %v, got %v", written[1:], got)
	}
	if !logger.Contains("returning %d records decoded before it") {
		t.Error("expected truncation to be logged")
	}
}

func TestSensorLogStore_TruncatedHeader(t *testing.T) {
	store, fs, _ := newMemStore(t)
	written := writeRecords(t, store, "A1", 2)

	f, err := fs.OpenFile(store.Path("A1"), os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("Failed to open log: %v", err)
	}
	if _, err := f.Write([]byte{0x05}); err != nil {
		t.Fatalf("Failed to append partial header: %v", err)
	}
	_ = f.Close()

	got, err := store.ReadTail(context.Background(), "A1", 10)
	if err != nil {
		t.Fatalf("expected truncated log to be readable, got %v", err)
	}
	if !reflect.DeepEqual(got, written) {
		t.Errorf("expected %v, got %v", written, got)
	}
}

func TestSensorLogStore_InvalidSensorID(t *testing.T) {
	store, _, _ := newMemStore(t)

	err := store.Write(context.Background(), "../escape", record(0))
	if !errors.Is(err, collectorDomain.ErrValidation) {
		t.Errorf("expected validation error on write, got %v", err)
	}
	_, err = store.ReadTail(context.Background(), "../escape", 1)
	if !errors.Is(err, collectorDomain.ErrValidation) {
		t.Errorf("expected validation error on read, got %v", err)
	}
}

func TestSensorLogStore_FieldTooLong(t *testing.T) {
	store, fs, _ := newMemStore(t)

	tooLong := collectorDomain.LogRecord{Timestamp: "ts", Reading: strings.Repeat("x", collectorDomain.MaxFieldLength+1)}
	if err := store.Write(context.Background(), "A1", tooLong); !errors.Is(err, collectorDomain.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if exists, _ := afero.Exists(fs, store.Path("A1")); exists {
		t.Error("rejected record must not create the log")
	}
}

func TestSensorLogStore_ContextCancelled(t *testing.T) {
	store, _, _ := newMemStore(t)
	writeRecords(t, store, "A1", 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.ReadTail(ctx, "A1", 3); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSensorLogStore_OsFileFormat(t *testing.T) {
	store, dir := newOsStore(t)
	if err := store.Write(context.Background(), "A1", collectorDomain.LogRecord{Timestamp: "ts", Reading: "1"}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(dir, "sensor_A1.log"))
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	want := []byte{0x02, 0x00, 't', 's', 0x01, 0x00, '1'}
	if string(content) != string(want) {
		t.Errorf("expected % x, got % x", want, content)
	}
}

func TestSensorLogStore_ConcurrentWrites(t *testing.T) {
	store, dir := newOsStore(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	const numGoroutines = 20
	const recordsPerGoroutine = 25

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < numGoroutines; i++ {
		g.Go(func() error {
			for j := 0; j < recordsPerGoroutine; j++ {
				r := collectorDomain.LogRecord{
					Timestamp: fmt.Sprintf("goroutine-%d", i),
					Reading:   strings.Repeat("v", j+1),
				}
				if err := store.Write(gctx, "shared", r); err != nil {
					return err
				}
			}
			return nil
		})
	}

	// concurrent readers must only ever see whole records
	var readers sync.WaitGroup
	for i := 0; i < 4; i++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for ctx.Err() == nil {
				records, err := store.ReadTail(ctx, "shared", numGoroutines*recordsPerGoroutine)
				if err != nil && !errors.Is(err, collectorDomain.ErrSensorNotFound) && !errors.Is(err, context.Canceled) {
					t.Errorf("ReadTail failed: %v", err)
					return
				}
				for _, r := range records {
					if !strings.HasPrefix(r.Timestamp, "goroutine-") {
						t.Errorf("observed a corrupted record %+v", r)
						return
					}
				}
				if len(records) == numGoroutines*recordsPerGoroutine {
					return
				}
			}
		}()
	}

	if err := g.Wait(); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	readers.Wait()

	f, err := os.Open(filepath.Join(dir, "sensor_shared.log"))
	if err != nil {
		t.Fatalf("Failed to open log: %v", err)
	}
	defer func() {
		_ = f.Close()
	}()

	reader := NewRecordReader(f)
	perWriter := make(map[string]int)
	total := 0
	for {
		r, err := reader.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			t.Fatalf("log is corrupted after %d records: %v", total, err)
		}
		if !strings.HasPrefix(r.Timestamp, "goroutine-") || strings.Trim(r.Reading, "v") != "" {
			t.Fatalf("corrupted record %+v", r)
		}
		perWriter[r.Timestamp]++
		total++
	}

	if total != numGoroutines*recordsPerGoroutine {
		t.Errorf("expected %d records, got %d", numGoroutines*recordsPerGoroutine, total)
	}
	for writer, n := range perWriter {
		if n != recordsPerGoroutine {
			t.Errorf("%s: expected %d records, got %d", writer, recordsPerGoroutine, n)
		}
	}
}

func BenchmarkSensorLogStore_Write(b *testing.B) {
	store, _ := newOsStore(b)
	r := record(1)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := store.Write(context.Background(), "bench", r); err != nil {
			b.Fatalf("Write failed: %v", err)
		}
	}
}

func BenchmarkSensorLogStore_ReadTail(b *testing.B) {
	store, _ := newOsStore(b)
	writeRecords(b, store, "bench", 10000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.ReadTail(context.Background(), "bench", 100); err != nil {
			b.Fatalf("ReadTail failed: %v", err)
		}
	}
}
