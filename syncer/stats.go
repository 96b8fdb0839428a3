package syncer

import (
	"fmt"
)

// Stats aggregates what one sync pass did. Every processed entity ends
// up in exactly one counter.
type Stats struct {
	Created    int
	Updated    int
	Unmodified int
	Renamed    int
	Moved      int
	Deleted    int
	Errors     int
}

func (s Stats) String() string {
	return fmt.Sprintf("created=%d updated=%d unmodified=%d renamed=%d moved=%d deleted=%d errors=%d",
		s.Created, s.Updated, s.Unmodified, s.Renamed, s.Moved, s.Deleted, s.Errors)
}

func (s *Stats) add(other Stats) {
	s.Created += other.Created
	s.Updated += other.Updated
	s.Unmodified += other.Unmodified
	s.Renamed += other.Renamed
	s.Moved += other.Moved
	s.Deleted += other.Deleted
	s.Errors += other.Errors
}
