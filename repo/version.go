package repo

import "github.com/kasionely/korner-integrations-service/model"

// nextVersion returns the version a write of s must carry over stored, which
// is nil when nothing is stored. A zero s.Version is an unconditional write.
func nextVersion(stored, s *model.Session) (int64, error) {
	var current int64
	if stored != nil {
		current = stored.Version
	}
	if s.Version != 0 && s.Version != current {
		return 0, model.ErrVersionConflict
	}
	return current + 1, nil
}

// checkDelete reports whether a delete expecting version may remove stored.
func checkDelete(stored *model.Session, version int64) error {
	if version == model.AnyVersion {
		return nil
	}
	if stored == nil || stored.Version != version {
		return model.ErrVersionConflict
	}
	return nil
}
