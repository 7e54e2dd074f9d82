package orderControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/ghassen-kharrat/barbachli-sub001/httpx"
	orderService "github.com/ghassen-kharrat/barbachli-sub001/services/order"
)

// GET /admin/orders/export-excel
func ExportOrdersToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := orderService.ListAdminOrdersForExport(db, orderService.ListParams{
			Status: c.Query("status"),
			Search: c.Query("search"),
		})
		if err != nil {
			httpx.Error(c, err)
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			httpx.Abort(c, http.StatusInternalServerError, "Failed to create Excel sheet")
			return
		}

		headers := []string{
			"ID", "Reference", "UserID", "Status", "PaymentStatus",
			"ShippingCity", "PhoneNumber", "Items", "ShippingFee",
			"TotalPrice", "CreatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, o := range orders {
			row := sheet.AddRow()

			row.AddCell().SetValue(int(o.ID))
			row.AddCell().SetValue(o.Reference)
			row.AddCell().SetValue(o.UserID)
			row.AddCell().SetValue(string(o.Status))
			row.AddCell().SetValue(string(o.PaymentStatus))
			row.AddCell().SetValue(o.ShippingCity)
			row.AddCell().SetValue(o.PhoneNumber)

			var itemCount int
			for _, item := range o.Items {
				itemCount += item.Quantity
			}
			row.AddCell().SetValue(strconv.Itoa(itemCount))

			row.AddCell().SetValue(o.ShippingFee.StringFixed(3))
			row.AddCell().SetValue(o.TotalPrice.StringFixed(3))
			row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			httpx.Abort(c, http.StatusInternalServerError, "Failed to write Excel file")
			return
		}
	}
}
