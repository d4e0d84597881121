package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	harvestAccepted    atomic.Int64
	harvestRejected    atomic.Int64
	harvestSaved       atomic.Int64
	suggestionsMade    atomic.Int64
	votesCast          atomic.Int64
	playlistPromotions atomic.Int64
)

func ObserveHarvest(accepted, rejected, saved int) {
	harvestAccepted.Add(int64(accepted))
	harvestRejected.Add(int64(rejected))
	harvestSaved.Add(int64(saved))
}

func IncSuggestion() {
	suggestionsMade.Add(1)
}

func IncVote() {
	votesCast.Add(1)
}

func IncPromotion() {
	playlistPromotions.Add(1)
}

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP hub_harvest_accepted_total Number of harvested candidates accepted by intake validation.\n")
	fmt.Fprintf(w, "# TYPE hub_harvest_accepted_total counter\n")
	fmt.Fprintf(w, "hub_harvest_accepted_total %d\n", harvestAccepted.Load())

	fmt.Fprintf(w, "# HELP hub_harvest_rejected_total Number of harvested candidates rejected by intake validation.\n")
	fmt.Fprintf(w, "# TYPE hub_harvest_rejected_total counter\n")
	fmt.Fprintf(w, "hub_harvest_rejected_total %d\n", harvestRejected.Load())

	fmt.Fprintf(w, "# HELP hub_harvest_saved_total Number of harvested requests persisted.\n")
	fmt.Fprintf(w, "# TYPE hub_harvest_saved_total counter\n")
	fmt.Fprintf(w, "hub_harvest_saved_total %d\n", harvestSaved.Load())

	fmt.Fprintf(w, "# HELP hub_suggestions_total Number of content suggestions made.\n")
	fmt.Fprintf(w, "# TYPE hub_suggestions_total counter\n")
	fmt.Fprintf(w, "hub_suggestions_total %d\n", suggestionsMade.Load())

	fmt.Fprintf(w, "# HELP hub_votes_total Number of votes cast on content suggestions.\n")
	fmt.Fprintf(w, "# TYPE hub_votes_total counter\n")
	fmt.Fprintf(w, "hub_votes_total %d\n", votesCast.Load())

	fmt.Fprintf(w, "# HELP hub_playlist_promotions_total Number of requests promoted to a broadcast playlist.\n")
	fmt.Fprintf(w, "# TYPE hub_playlist_promotions_total counter\n")
	fmt.Fprintf(w, "hub_playlist_promotions_total %d\n", playlistPromotions.Load())
}
