package physmem

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"

	_ "github.com/glebarez/go-sqlite"

	"github.com/madhatguy/hpagetable/obslog"
)

// backingStore is the secondary store for evicted pages: a SQLite table
// keyed by virtual page number, with lookup and storage handled by the
// database driver instead of hand-rolled file offsets.
type backingStore struct {
	db       *sql.DB
	pageSize uint32
}

func openBackingStore(path string, pageSize uint32) (*backingStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening swap database %q: %w", path, err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS pages (vpn INTEGER PRIMARY KEY, data BLOB NOT NULL)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating swap table: %w", err)
	}
	return &backingStore{db: db, pageSize: pageSize}, nil
}

func (s *backingStore) close() error {
	return s.db.Close()
}

// put persists the words of a page under its virtual page number,
// overwriting any previous contents for that page.
func (s *backingStore) put(ctx context.Context, virtualPage uint64, words []uint64) error {
	buf := encodeWords(words)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pages (vpn, data) VALUES (?, ?) ON CONFLICT(vpn) DO UPDATE SET data = excluded.data`,
		virtualPage, buf)
	if err != nil {
		return fmt.Errorf("persisting page %d: %w", virtualPage, err)
	}
	return nil
}

// get returns the words stored for a virtual page, or a page of zeros if
// the page was never evicted.
func (s *backingStore) get(ctx context.Context, virtualPage uint64) ([]uint64, error) {
	var buf []byte
	row := s.db.QueryRowContext(ctx, `SELECT data FROM pages WHERE vpn = ?`, virtualPage)
	switch err := row.Scan(&buf); err {
	case nil:
		return decodeWords(buf, s.pageSize), nil
	case sql.ErrNoRows:
		obslog.Info.Info("virtual page never evicted, restoring zeros", "virtual_page", virtualPage)
		return make([]uint64, s.pageSize), nil
	default:
		return nil, fmt.Errorf("reading page %d: %w", virtualPage, err)
	}
}

func encodeWords(words []uint64) []byte {
	buf := make([]byte, len(words)*8)
	for i, w := range words {
		binary.LittleEndian.PutUint64(buf[i*8:], w)
	}
	return buf
}

func decodeWords(buf []byte, pageSize uint32) []uint64 {
	words := make([]uint64, pageSize)
	for i := range words {
		if (i+1)*8 <= len(buf) {
			words[i] = binary.LittleEndian.Uint64(buf[i*8:])
		}
	}
	return words
}
