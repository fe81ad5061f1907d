package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/bookstore/internal/models"
	"github.com/Skotchmaster/bookstore/internal/transport"
)

// BookIndex keeps one document per book, keyed by the book id.
type BookIndex struct {
	ES    *elasticsearch.Client
	Index string
}

func bookDoc(b *models.Book) transport.BookHit {
	names := make([]string, 0, len(b.Authors))
	for _, a := range b.Authors {
		names = append(names, a.FirstName+" "+a.LastName)
	}
	return transport.BookHit{ID: b.ID, Title: b.Title, Price: b.Price, Authors: names}
}

func (i *BookIndex) IndexBook(ctx context.Context, book *models.Book) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(bookDoc(book)); err != nil {
		return fmt.Errorf("es: encode book: %w", err)
	}

	res, err := i.ES.Index(i.Index, &buf,
		i.ES.Index.WithContext(ctx),
		i.ES.Index.WithDocumentID(strconv.FormatUint(uint64(book.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("es: index book: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError("index book", res.StatusCode, res.Body)
	}
	return nil
}

// DeleteBook treats a missing document as already deleted.
func (i *BookIndex) DeleteBook(ctx context.Context, id uint) error {
	res, err := i.ES.Delete(i.Index, strconv.FormatUint(uint64(id), 10),
		i.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("es: delete book: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return responseError("delete book", res.StatusCode, res.Body)
	}
	return nil
}

func (i *BookIndex) Search(ctx context.Context, query string, from, size int) (int64, []transport.BookHit, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"title^2", "authors"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("es: encode query: %w", err)
	}

	res, err := i.ES.Search(
		i.ES.Search.WithContext(ctx),
		i.ES.Search.WithIndex(i.Index),
		i.ES.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("es: search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, responseError("search", res.StatusCode, res.Body)
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source transport.BookHit `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("es: decode search: %w", err)
	}

	books := make([]transport.BookHit, len(r.Hits.Hits))
	for n, hit := range r.Hits.Hits {
		books[n] = hit.Source
	}
	return r.Hits.Total.Value, books, nil
}

func responseError(op string, status int, body io.Reader) error {
	msg, _ := io.ReadAll(body)
	return fmt.Errorf("es: %s: status %d: %s", op, status, msg)
}
