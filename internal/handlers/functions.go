package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dimitrije/rosterdesk-api/internal/spotify"
	"github.com/dimitrije/rosterdesk-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"go.uber.org/zap"
)

// FunctionsHandler serves the integration endpoints under /functions. They
// sit behind the function key instead of a user session.
type FunctionsHandler struct {
	fetcher MetadataFetcher
	spotify SpotifyClient
	logger  *zap.Logger
}

func NewFunctionsHandler(fetcher MetadataFetcher, spotifyClient SpotifyClient, logger *zap.Logger) *FunctionsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FunctionsHandler{
		fetcher: fetcher,
		spotify: spotifyClient,
		logger:  logger.Named("functions"),
	}
}

// FetchMetadata answers 200 with whatever could be extracted, even an empty
// result. Only a missing or unusable URL is an error.
func (h *FunctionsHandler) FetchMetadata(c *drift.Context) {
	var req dto.MetadataRequest
	if err := c.BindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		_ = c.JSON(400, dto.MetadataErrorResponse{Success: false, Error: "URL is required"})
		return
	}

	result, err := h.fetcher.Fetch(c.Request.Context(), req.URL)
	if err != nil {
		h.logger.Error("metadata fetch failed", zap.String("url", req.URL), zap.Error(err))
		_ = c.JSON(500, dto.MetadataErrorResponse{Success: false, Error: err.Error()})
		return
	}

	_ = c.JSON(200, result)
}

// SpotifySearch accepts the query as ?q on GET or {"q"} on POST.
func (h *FunctionsHandler) SpotifySearch(c *drift.Context) {
	query := c.QueryParam("q")
	if c.Request.Method == http.MethodPost {
		var req dto.SpotifySearchRequest
		if err := c.BindJSON(&req); err != nil {
			_ = c.JSON(400, dto.ErrorResponse{Error: "invalid request body"})
			return
		}
		query = req.Q
	}

	artists, err := h.spotify.SearchArtists(c.Request.Context(), query)
	if err != nil {
		h.logger.Error("spotify search failed", zap.String("query", query), zap.Error(err))
		_ = c.JSON(500, dto.ErrorResponse{Error: err.Error()})
		return
	}
	if artists == nil {
		artists = []spotify.Artist{}
	}

	_ = c.JSON(200, dto.SpotifySearchResponse{Artists: artists})
}

func (h *FunctionsHandler) SpotifyArtist(c *drift.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		_ = c.JSON(400, dto.ErrorResponse{Error: "artist id is required"})
		return
	}

	artist, err := h.spotify.GetArtist(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, spotify.ErrArtistNotFound) {
			_ = c.JSON(404, dto.ErrorResponse{Error: err.Error()})
			return
		}
		h.logger.Error("spotify artist lookup failed", zap.String("spotify_id", id), zap.Error(err))
		_ = c.JSON(500, dto.ErrorResponse{Error: err.Error()})
		return
	}

	_ = c.JSON(200, dto.SpotifyArtistResponse{Artist: artist})
}
