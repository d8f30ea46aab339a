package httpserver

import (
	"net/http"

	"nanoeats/internal/domain"
	"nanoeats/internal/repository/popularity"
	catalogsvc "nanoeats/internal/service/catalog"

	"github.com/gin-gonic/gin"
)

type menuItemView struct {
	domain.MenuItem
	OrdersCount int64 `json:"ordersCount"`
}

func getVendorMenuHandler(svc *catalogsvc.Service, counter popularity.Counter) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendor, err := domain.VendorRefFromIDs(c.Query("restaurantId"), c.Query("chefId"))
		if err != nil {
			respondError(c, err)
			return
		}

		v, items, err := svc.VendorMenu(c.Request.Context(), vendor)
		if err != nil {
			respondError(c, err)
			return
		}

		views := make([]menuItemView, 0, len(items))
		for _, it := range items {
			view := menuItemView{MenuItem: it}
			if counter != nil {
				// best-effort; a dead counter store degrades to zero
				if n, err := counter.OrderCount(c.Request.Context(), it.ID); err == nil {
					view.OrdersCount = n
				}
			}
			views = append(views, view)
		}

		c.JSON(http.StatusOK, gin.H{
			"vendor": gin.H{"name": v.Name, "isVegOnly": v.IsVegOnly},
			"items":  views,
		})
	}
}
