package delivery

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/hbomb79/Reel/internal/store"
	"github.com/hbomb79/Reel/pkg/logger"
	"github.com/labstack/gommon/bytes"
)

var log = logger.Get("Delivery")

type (
	fileStore interface {
		Resolve(name string) (string, error)
		Claim(name string) (func(), bool)
		Remove(name string) error
	}

	// Service hands out transient files for a single delivery each.
	Service struct {
		store fileStore
	}

	// Delivery is an open, claimed transient file. Closing it removes the file
	// from the store, whether or not it was read to completion.
	Delivery struct {
		Name    string
		Size    int64
		ModTime time.Time

		file    *os.File
		service *Service
		release func()
		once    sync.Once
		sent    int64
	}
)

func New(store fileStore) *Service {
	return &Service{store: store}
}

// Open claims and opens the named file. Names which do not resolve to a file
// in the store, or which are already being delivered, yield store.ErrNotFound.
func (service *Service) Open(name string) (*Delivery, error) {
	release, ok := service.store.Claim(name)
	if !ok {
		return nil, store.ErrNotFound
	}

	path, err := service.store.Resolve(name)
	if err != nil {
		release()
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		release()
		if errors.Is(err, os.ErrNotExist) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("open %s: %w", name, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		release()
		return nil, fmt.Errorf("stat %s: %w", name, err)
	}

	return &Delivery{
		file:    file,
		Name:    name,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		service: service,
		release: release,
	}, nil
}

// Read counts the bytes handed to the client so the close log can tell a
// complete delivery from an aborted one.
func (d *Delivery) Read(p []byte) (int, error) {
	n, err := d.file.Read(p)
	d.sent += int64(n)
	return n, err
}

func (d *Delivery) Seek(offset int64, whence int) (int64, error) {
	return d.file.Seek(offset, whence)
}

// Close closes the file and removes it from the store. Removal failures are
// logged rather than returned as the response has already been committed.
// Calling Close more than once is safe.
func (d *Delivery) Close() error {
	var closeErr error
	d.once.Do(func() {
		closeErr = d.file.Close()
		if err := d.service.store.Remove(d.Name); err != nil {
			log.Errorf("Failed to remove delivered file %s: %v\n", d.Name, err)
		} else {
			log.Emit(logger.REMOVE, "Removed %s after delivery (%s of %s sent)\n", d.Name, bytes.Format(d.sent), bytes.Format(d.Size))
		}

		d.release()
	})

	return closeErr
}
