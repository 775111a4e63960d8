package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nvkalinin/workday-locator/log"
	"github.com/nvkalinin/workday-locator/store"
	"go.etcd.io/bbolt"
)

const exclBucket = "excl"

// Bolt хранит все исключения в одном бакете (const exclBucket).
// По ключу /<y>/<m> хранится JSON-массив исключенных дней месяца. Оба ключа - числовые.
// Locate всегда работает в пределах одного месяца, поэтому месяц - естественная единица хранения.
type Bolt struct {
	db *bbolt.DB
}

func NewBolt(file string) (*Bolt, error) {
	b, err := bbolt.Open(file, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("cannot open bolt store: %w", err)
	}
	log.Printf("[DEBUG] store/bolt opened %s successfully", file)

	return &Bolt{
		db: b,
	}, nil
}

func (b *Bolt) Close() error {
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("cannot close bolt store: %w", err)
	}
	log.Printf("[DEBUG] store/bolt closed successfully")
	return nil
}

func monthKey(y int, mon time.Month) []byte {
	return []byte(fmt.Sprintf("/%d/%d", y, mon))
}

func (b *Bolt) FindMonth(y int, mon time.Month) (d store.Days, ok bool) {
	_ = b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(exclBucket))
		if bucket == nil {
			return nil
		}

		key := monthKey(y, mon)
		daysJson := bucket.Get(key)
		log.Printf("[DEBUG] store/bolt get key=%s len=%d", key, len(daysJson))
		if daysJson == nil {
			return nil
		}

		if err := json.Unmarshal(daysJson, &d); err != nil {
			d = nil
			log.Printf("[WARN] bolt: invalid exclusions at %s: %v", key, err)
			return nil
		}

		ok = true
		return nil
	})
	return
}

func (b *Bolt) FindYear(y int) (m store.Months, ok bool) {
	_ = b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(exclBucket))
		if bucket == nil {
			return nil
		}

		m = make(store.Months, 12)

		prefix := []byte(fmt.Sprintf("/%d/", y))
		log.Printf("[DEBUG] store/bolt getting cursor at %s", prefix)
		c := bucket.Cursor()

		// Ключи в bolt отсортированы, поэтому достаточно перейти к первому ключу с prefix
		// и идти вперед, пока префикс совпадает.
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			log.Printf("[DEBUG] store/bolt cursor is at key=%s len=%d", k, len(v))

			monNum, err := strconv.Atoi(string(bytes.TrimPrefix(k, prefix)))
			if err != nil {
				log.Printf("[WARN] bolt: invalid month key: %s", k)
				continue
			}

			var d store.Days
			if err := json.Unmarshal(v, &d); err != nil {
				log.Printf("[WARN] bolt: invalid exclusions at %s: %v", k, err)
				continue
			}

			m[time.Month(monNum)] = d
		}

		ok = len(m) > 0
		if !ok {
			m = nil
		}
		return nil
	})
	return
}

// PutYear полностью заменяет исключения за год: месяцы, которых нет в data, удаляются.
func (b *Bolt) PutYear(y int, data store.Months) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(exclBucket))
		if err != nil {
			return fmt.Errorf("bolt cannot create bucket '%s': %w", exclBucket, err)
		}

		for mon := time.January; mon <= time.December; mon++ {
			key := monthKey(y, mon)

			days, ok := data[mon]
			if !ok {
				if err := bucket.Delete(key); err != nil {
					return fmt.Errorf("bolt cannot delete %s: %w", key, err)
				}
				continue
			}

			val, err := json.Marshal(days)
			if err != nil {
				return fmt.Errorf("bolt cannot marshal %s: %w", key, err)
			}

			log.Printf("[DEBUG] store/bolt put key=%s len=%d", key, len(val))
			if err := bucket.Put(key, val); err != nil {
				return fmt.Errorf("bolt cannot put %s: %w", key, err)
			}
		}
		return nil
	})
}

func (b *Bolt) Backup(w io.Writer) error {
	return b.db.View(func(tx *bbolt.Tx) error {
		log.Printf("[DEBUG] store/bolt writing backup len=%d", tx.Size())
		_, err := tx.WriteTo(w)
		return err
	})
}
