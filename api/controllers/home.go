package controllers

import (
	"net/http"

	"github.com/angelmondragon/talesbyhand-backend/api/responses"
	"github.com/angelmondragon/talesbyhand-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/talesbyhand-backend/pkg/errors"
	"github.com/angelmondragon/talesbyhand-backend/pkg/logger"
)

type homeView struct {
	WebsiteInfo string              `json:"website_info"`
	Regions     []catalog.RegionDTO `json:"regions"`
}

// Home renders the landing view: the site blurb and every region by name.
func Home(svc catalog.Service, websiteInfo string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		regions, err := svc.ListRegions(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, homeView{WebsiteInfo: websiteInfo, Regions: regions})
	}
}
