package mock

import (
	"context"

	"github.com/fwojciec/scriptorium"
)

var _ scriptorium.AuthorService = (*AuthorService)(nil)

// AuthorService is a mock implementation of scriptorium.AuthorService.
type AuthorService struct {
	EnsureAuthorFn func(ctx context.Context, author *scriptorium.Author) error
	FindAuthorsFn  func(ctx context.Context, filter scriptorium.AuthorFilter) ([]*scriptorium.Author, error)
}

func (s *AuthorService) EnsureAuthor(ctx context.Context, author *scriptorium.Author) error {
	return s.EnsureAuthorFn(ctx, author)
}

func (s *AuthorService) FindAuthors(ctx context.Context, filter scriptorium.AuthorFilter) ([]*scriptorium.Author, error) {
	return s.FindAuthorsFn(ctx, filter)
}

var _ scriptorium.BookService = (*BookService)(nil)

// BookService is a mock implementation of scriptorium.BookService.
type BookService struct {
	EnsureBookFn func(ctx context.Context, book *scriptorium.Book) error
	FindBooksFn  func(ctx context.Context, filter scriptorium.BookFilter) ([]*scriptorium.Book, error)
}

func (s *BookService) EnsureBook(ctx context.Context, book *scriptorium.Book) error {
	return s.EnsureBookFn(ctx, book)
}

func (s *BookService) FindBooks(ctx context.Context, filter scriptorium.BookFilter) ([]*scriptorium.Book, error) {
	return s.FindBooksFn(ctx, filter)
}

var _ scriptorium.ChapterService = (*ChapterService)(nil)

// ChapterService is a mock implementation of scriptorium.ChapterService.
type ChapterService struct {
	EnsureChapterFn func(ctx context.Context, chapter *scriptorium.Chapter) error
	FindChaptersFn  func(ctx context.Context, filter scriptorium.ChapterFilter) ([]*scriptorium.Chapter, error)
}

func (s *ChapterService) EnsureChapter(ctx context.Context, chapter *scriptorium.Chapter) error {
	return s.EnsureChapterFn(ctx, chapter)
}

func (s *ChapterService) FindChapters(ctx context.Context, filter scriptorium.ChapterFilter) ([]*scriptorium.Chapter, error) {
	return s.FindChaptersFn(ctx, filter)
}

var _ scriptorium.SegmentService = (*SegmentService)(nil)

// SegmentService is a mock implementation of scriptorium.SegmentService.
type SegmentService struct {
	CreateSegmentsFn func(ctx context.Context, segments []*scriptorium.Segment) error
	FindSegmentsFn   func(ctx context.Context, filter scriptorium.SegmentFilter) ([]*scriptorium.Segment, error)
}

func (s *SegmentService) CreateSegments(ctx context.Context, segments []*scriptorium.Segment) error {
	return s.CreateSegmentsFn(ctx, segments)
}

func (s *SegmentService) FindSegments(ctx context.Context, filter scriptorium.SegmentFilter) ([]*scriptorium.Segment, error) {
	return s.FindSegmentsFn(ctx, filter)
}
