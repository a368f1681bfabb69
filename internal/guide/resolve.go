package guide

import "watchhub/pkg/models"

// Match is a resolved series plus the order that mentions the requested
// anime.
type Match struct {
	Series models.Series
	Order  models.WatchOrder
}

// Resolve scans the dataset in document order and returns the first
// series whose orders mention mediaID, and the first such order within
// it. A miss is a normal outcome, not an error.
func Resolve(series []models.Series, mediaID int) (Match, bool) {
	for _, s := range series {
		for _, o := range s.Orders {
			if orderHasMedia(o, mediaID) {
				return Match{Series: s, Order: o}, true
			}
		}
	}
	return Match{}, false
}

func orderHasMedia(o models.WatchOrder, mediaID int) bool {
	for _, st := range o.Steps {
		if st.AnilistID != nil && *st.AnilistID == mediaID {
			return true
		}
	}
	return false
}
