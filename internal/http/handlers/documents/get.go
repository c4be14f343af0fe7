package documents

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"digesto/internal/dto"
	"digesto/internal/models"
	utils "digesto/internal/utils/http_errors"
	parse "digesto/internal/utils/parseLimit"
)

func GetByID(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, ds DocumentService) {
	op := pkg + "GetByID"

	log = log.With(slog.String("op", op))

	id, err := strconv.Atoi(docID)
	if err != nil {
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	doc, err := ds.DocumentByID(ctx, id)
	if err != nil {
		writeServiceError(log, w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, doc)
}

func Search(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, ds DocumentService) {
	op := pkg + "Search"

	log = log.With(slog.String("op", op))

	query := r.URL.Query()

	request := dto.SearchRequest{
		SearchTerm:   query.Get("q"),
		TitleTerm:    query.Get("title"),
		NumberTerm:   query.Get("number"),
		ExcludeTerms: query.Get("exclude"),
		TypeID:       parse.ParseLimit(query.Get("type_id")),
		SectorID:     parse.ParseLimit(query.Get("sector_id")),
		StatusID:     parse.ParseLimit(query.Get("status_id")),
		Limit:        parse.ParseLimit(query.Get("limit")),
		Offset:       parse.ParseOffset(query.Get("offset")),
	}

	var err error

	request.DateFrom, err = parseDate(query.Get("date_from"))
	if err != nil {
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	request.DateTo, err = parseDate(query.Get("date_to"))
	if err != nil {
		utils.WriteJSONError(w, http.StatusBadRequest, models.ErrInvalidParams.Error())
		return
	}

	page, err := ds.Search(ctx, request)
	if err != nil {
		writeServiceError(log, w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, page)
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}

	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}

	return &d, nil
}
