package catalog

import (
	"strconv"
	"strings"

	"siparis-backend/internal/database"
	"siparis-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// POST /api/admin/ingredients/import
// Bulk ingredient upload: an .xlsx whose first sheet has ingredient name in
// column A and stock baseline in column B. Existing names are skipped,
// reported back as such.
func ImportIngredientsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "file could not be uploaded: "+err.Error())
		}

		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "only .xlsx files are accepted")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "file could not be opened: "+err.Error())
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "excel file could not be read: "+err.Error())
		}
		defer excelFile.Close()

		sheetList := excelFile.GetSheetList()
		if len(sheetList) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "excel file has no sheets")
		}

		rows, err := excelFile.GetRows(sheetList[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "sheet could not be read: "+err.Error())
		}
		if len(rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "excel file is empty")
		}

		// A header row is detected by a non-numeric stock column.
		startIndex := 0
		if len(rows[0]) > 1 {
			if _, err := strconv.ParseInt(strings.TrimSpace(rows[0][1]), 10, 64); err != nil {
				startIndex = 1
			}
		}

		created := 0
		skipped := make([]string, 0)
		for i := startIndex; i < len(rows); i++ {
			row := rows[i]
			if len(row) < 2 {
				continue
			}

			name := strings.TrimSpace(row[0])
			if name == "" {
				continue
			}
			stockValue, err := strconv.ParseInt(strings.TrimSpace(row[1]), 10, 64)
			if err != nil || stockValue < 0 {
				skipped = append(skipped, name)
				continue
			}

			var existing models.Ingredient
			if err := database.DB.Where("name = ?", name).First(&existing).Error; err == nil {
				skipped = append(skipped, name)
				continue
			}

			ing := models.Ingredient{Name: name, Stock: stockValue, Remaining: stockValue}
			if err := database.DB.Create(&ing).Error; err != nil {
				skipped = append(skipped, name)
				continue
			}
			created++
		}

		return c.JSON(fiber.Map{
			"created": created,
			"skipped": skipped,
		})
	}
}
