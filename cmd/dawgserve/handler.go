package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/milden6/dictomaton"
)

// Handler answers lookups against one dictionary.
type Handler struct {
	dict *dictomaton.PerfectHashDictionary
}

// NewHandler creates a handler.
func NewHandler(dict *dictomaton.PerfectHashDictionary) *Handler {
	return &Handler{dict: dict}
}

// RegisterRoutes registers the lookup routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/words/*word", h.GetWord)
	r.GET("/rank/:rank", h.GetRank)
	r.GET("/prefixes/*input", h.GetPrefixes)
	r.GET("/stats", h.GetStats)
}

// wildcard returns a catch-all parameter without its leading slash. Words
// may contain slashes.
func wildcard(c *gin.Context, name string) string {
	return strings.TrimPrefix(c.Param(name), "/")
}

// GetWord returns the rank of a word.
func (h *Handler) GetWord(c *gin.Context) {
	word := wildcard(c, "word")
	rank, err := h.dict.Rank(word)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"word": word, "rank": rank})
}

// GetRank returns the word at a rank.
func (h *Handler) GetRank(c *gin.Context) {
	rank, err := strconv.Atoi(c.Param("rank"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rank"})
		return
	}
	word, err := h.dict.Unrank(rank)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, dictomaton.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"word": word, "rank": rank})
}

type prefixResult struct {
	Word string `json:"word"`
	Rank int    `json:"rank"`
}

// GetPrefixes returns all words that are prefixes of the input.
func (h *Handler) GetPrefixes(c *gin.Context) {
	results := []prefixResult{}
	for _, r := range h.dict.FindAllPrefixesOf(wildcard(c, "input")) {
		results = append(results, prefixResult{Word: r.Word, Rank: r.Index})
	}
	c.JSON(http.StatusOK, gin.H{"prefixes": results})
}

// GetStats returns the size of the automaton.
func (h *Handler) GetStats(c *gin.Context) {
	a := h.dict.Automaton()
	c.JSON(http.StatusOK, gin.H{
		"words":       a.NumWords(),
		"states":      a.NumStates(),
		"transitions": a.NumTransitions(),
	})
}
