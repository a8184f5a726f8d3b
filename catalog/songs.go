package catalog

import (
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"

	"github.com/ensemblefm/ensemble/db"
	"github.com/ensemblefm/ensemble/reconcile"
)

// SongInput is the allow-list of song fields a request may write
type SongInput struct {
	Title   string `validate:"required,max=80"`
	AlbumID *int
	GenreID *int
	// musician ids picked on the form. absent selections clear everything
	SelectedPerformers []string
}

// ListSongs loads every song with album, genre, and performers hydrated
func (s *Service) ListSongs() ([]*db.Song, error) {
	var songs []*db.Song
	err := s.db.
		Preload("Album.Genre").
		Preload("Genre").
		Preload("Performances.Musician").
		Find(&songs).
		Error
	if err != nil {
		return nil, errors.Wrap(err, "listing songs")
	}
	return songs, nil
}

// GetSong loads one fully hydrated song aggregate
func (s *Service) GetSong(id int) (*db.Song, error) {
	song := &db.Song{}
	err := s.db.
		Preload("Album.Genre").
		Preload("Genre").
		Preload("Performances.Musician").
		First(song, id).
		Error
	if db.IsNotFound(err) {
		return nil, newError(KindNotFound, msgNotFound, err)
	}
	if err != nil {
		return nil, errors.Wrap(err, "loading song")
	}
	return song, nil
}

// CreateSong validates the input, inserts the row, and attaches the
// requested performers
func (s *Service) CreateSong(in SongInput) (*db.Song, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	song := &db.Song{
		Title:   in.Title,
		AlbumID: in.AlbumID,
		GenreID: in.GenreID,
	}
	err := s.saveTx(func(tx *gorm.DB) error {
		musicians, err := allMusicians(tx)
		if err != nil {
			return err
		}
		if err := tx.Create(song).Error; err != nil {
			return err
		}
		delta := reconcile.Diff(
			nil,
			reconcile.ParseKeys(in.SelectedPerformers),
			musicianIDs(musicians),
		)
		return applyPerformanceDelta(tx, song.ID, delta)
	})
	if err != nil {
		return nil, classifySongSave(err)
	}
	return song, nil
}

// UpdateSong reconciles the song's performances against the submitted
// membership and applies the allow-listed scalar fields in one
// transaction, the scalar update guarded by the row's version marker
func (s *Service) UpdateSong(id int, in SongInput) (*db.Song, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}
	err := s.saveTx(func(tx *gorm.DB) error {
		song := &db.Song{}
		err := tx.Preload("Performances").First(song, id).Error
		if db.IsNotFound(err) {
			return newError(KindNotFound, msgNotFound, err)
		}
		if err != nil {
			return errors.Wrap(err, "loading song")
		}
		musicians, err := allMusicians(tx)
		if err != nil {
			return err
		}
		current := make(map[int]struct{}, len(song.Performances))
		for _, p := range song.Performances {
			if p.MusicianID != nil {
				current[*p.MusicianID] = struct{}{}
			}
		}
		delta := reconcile.Diff(
			current,
			reconcile.ParseKeys(in.SelectedPerformers),
			musicianIDs(musicians),
		)
		if err := applyPerformanceDelta(tx, id, delta); err != nil {
			return err
		}
		res := tx.
			Model(&db.Song{}).
			Where("id=? AND version=?", id, song.Version).
			Updates(map[string]interface{}{
				"title":    in.Title,
				"album_id": in.AlbumID,
				"genre_id": in.GenreID,
				"version":  song.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return staleRowError(tx, &db.Song{}, id)
		}
		return nil
	})
	if err != nil {
		return nil, classifySongSave(err)
	}
	return s.GetSong(id)
}

// DeleteSong removes the song along with the performances it owns
func (s *Service) DeleteSong(id int) error {
	err := s.saveTx(func(tx *gorm.DB) error {
		song := &db.Song{}
		err := tx.First(song, id).Error
		if db.IsNotFound(err) {
			return newError(KindNotFound, msgNotFound, err)
		}
		if err != nil {
			return errors.Wrap(err, "loading song")
		}
		if err := tx.Where("song_id=?", id).Delete(db.Performance{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.Song{ID: id}).Error
	})
	if err == nil {
		return nil
	}
	if cerr, ok := err.(*Error); ok {
		return cerr
	}
	return newError(KindPersistence, msgPersistence, err)
}

// SongOptions builds the song form's option lists: album and genre
// dropdowns plus the assigned/available performer split
func (s *Service) SongOptions(albumID, genreID *int, performing map[int]struct{}) (*SongFormOptions, error) {
	var albums []*db.Album
	if err := s.db.Preload("Genre").Find(&albums).Error; err != nil {
		return nil, errors.Wrap(err, "listing albums")
	}
	var genres []*db.Genre
	if err := s.db.Find(&genres).Error; err != nil {
		return nil, errors.Wrap(err, "listing genres")
	}
	musicians, err := allMusicians(s.db.DB)
	if err != nil {
		return nil, err
	}
	sel, avail := SplitPerformers(musicians, performing)
	return &SongFormOptions{
		Albums:              AlbumOptions(albums, albumID),
		Genres:              GenreOptions(genres, genreID),
		SelectedPerformers:  sel,
		AvailablePerformers: avail,
	}, nil
}

// SongFormOptions is everything the song form needs to render its
// reference data without losing the user's selections
type SongFormOptions struct {
	Albums              []Option `json:"albums"`
	Genres              []Option `json:"genres"`
	SelectedPerformers  []Option `json:"selectedPerformers"`
	AvailablePerformers []Option `json:"availablePerformers"`
}

func musicianIDs(musicians []*db.Musician) []int {
	ids := make([]int, 0, len(musicians))
	for _, m := range musicians {
		ids = append(ids, m.ID)
	}
	return ids
}

func applyPerformanceDelta(tx *gorm.DB, songID int, delta reconcile.Delta[int]) error {
	for _, musicianID := range delta.Remove {
		err := tx.
			Where("song_id=? AND musician_id=?", songID, musicianID).
			Delete(db.Performance{}).
			Error
		if err != nil {
			return err
		}
	}
	for _, musicianID := range delta.Add {
		musicianID := musicianID
		songID := songID
		err := tx.Create(&db.Performance{
			MusicianID: &musicianID,
			SongID:     &songID,
		}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func classifySongSave(err error) error {
	if cerr, ok := err.(*Error); ok {
		return cerr
	}
	return newError(KindPersistence, msgPersistence, err)
}
