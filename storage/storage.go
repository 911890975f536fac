package storage // import "github.com/bookverse/bookverse/storage"

import "io"

// PlaceholderCover is served for books uploaded without a cover image.
const PlaceholderCover = "/placeholder.svg?height=400&width=300"

// Storage persists uploaded cover images and returns the public path
// they are served under.
type Storage interface {
	SaveCover(reader io.Reader, fileName string) (string, error)
	RemoveCover(publicPath string) error
}
