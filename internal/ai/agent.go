package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"peptide-store/internal/database"
	"peptide-store/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

// RunAgent answers a back-office question, letting the model call into the
// live database for inventory, order and sales lookups.
func RunAgent(db *gorm.DB, userMessage string, apiKey string) (string, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	today := time.Now().Format("2006-01-02")
	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are the back-office assistant of a peptide storefront.

	RULES:
	1. STOCK: For ANY question about a product's price, stock or variations,
	   call 'check_inventory' and read the JSON to answer. Do NOT say you
	   cannot see the catalog.
	2. ORDERS: For questions about a specific order (status, tracking,
	   amounts), call 'get_order' with the order id.
	3. SALES: For revenue or order-count questions, call 'get_sales_report'
	   with a date range.

	USER: %s`, today, userMessage)

	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "check_inventory",
					Description: "Get the full catalog with per-variation price and stock. Use this to find ANY product details.",
				},
				{
					Name:        "get_order",
					Description: "Get one order's status, payment state, tracking info and totals by its ID",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"order_id": {Type: genai.TypeInteger, Description: "ID of the order"},
						},
						Required: []string{"order_id"},
					},
				},
				{
					Name:        "get_sales_report",
					Description: "Get total revenue and order count for a date range.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
							"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
						},
						Required: []string{"start_date", "end_date"},
					},
				},
			},
		},
	}

	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return "", err
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {
			switch funcCall.Name {
			case "check_inventory":
				return executeCheckInventory(ctx, db, session)
			case "get_order":
				return executeGetOrder(ctx, db, session, funcCall), nil
			case "get_sales_report":
				return executeSalesReport(ctx, db, session, funcCall), nil
			}
		}
	}

	return printResponse(resp), nil
}

// --- TOOL EXECUTORS ---

func executeCheckInventory(ctx context.Context, db *gorm.DB, session *genai.ChatSession) (string, error) {
	var products []models.Product
	db.Preload("Variations").Find(&products)

	type simpleVariation struct {
		ID    uint    `json:"id"`
		Name  string  `json:"name"`
		Price float64 `json:"price"`
		Stock int     `json:"stock"`
	}
	type simpleProduct struct {
		ID         uint              `json:"id"`
		Name       string            `json:"name"`
		Category   string            `json:"category"`
		Price      float64           `json:"price"`
		Stock      int               `json:"stock"`
		Available  bool              `json:"available"`
		Variations []simpleVariation `json:"variations"`
	}

	var simpleList []simpleProduct
	for _, p := range products {
		sp := simpleProduct{
			ID:        p.ID,
			Name:      p.Name,
			Category:  p.Category,
			Price:     p.BasePrice,
			Stock:     p.StockQuantity,
			Available: p.Available,
		}
		for _, v := range p.Variations {
			sp.Variations = append(sp.Variations, simpleVariation{
				ID: v.ID, Name: v.Name, Price: v.Price, Stock: v.StockQuantity,
			})
		}
		simpleList = append(simpleList, sp)
	}

	jsonBytes, _ := json.Marshal(simpleList)

	finalResp, err := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "check_inventory",
		Response: map[string]interface{}{"catalog": string(jsonBytes)},
	})
	if err != nil {
		return "", err
	}
	return printResponse(finalResp), nil
}

func executeGetOrder(ctx context.Context, db *gorm.DB, session *genai.ChatSession, funcCall genai.FunctionCall) string {
	orderID := int(funcCall.Args["order_id"].(float64))

	var order models.Order
	response := map[string]interface{}{}
	if err := db.Preload("Items").First(&order, orderID).Error; err != nil {
		response["status"] = "Order not found"
	} else {
		response["order_status"] = string(order.OrderStatus)
		response["payment_status"] = string(order.PaymentStatus)
		response["customer"] = order.FullName
		response["total"] = order.TotalPrice + order.ShippingFee
		response["tracking_number"] = order.TrackingNumber
		response["shipping_provider"] = order.ShippingProvider
		response["item_count"] = len(order.Items)
	}

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "get_order",
		Response: response,
	})
	return printResponse(finalResp)
}

func executeSalesReport(ctx context.Context, db *gorm.DB, session *genai.ChatSession, funcCall genai.FunctionCall) string {
	startStr := funcCall.Args["start_date"].(string)
	endStr := funcCall.Args["end_date"].(string)

	start, err1 := time.Parse("2006-01-02", startStr)
	end, err2 := time.Parse("2006-01-02", endStr)
	if err1 != nil || err2 != nil {
		return "Error: Dates must be in YYYY-MM-DD format."
	}
	end = end.Add(23*time.Hour + 59*time.Minute)

	report, err := database.GetSalesReport(db, start, end)
	if err != nil {
		return "Error calculating sales."
	}

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name: "get_sales_report",
		Response: map[string]interface{}{
			"revenue":     report.TotalRevenue,
			"order_count": report.TotalCount,
		},
	})
	return printResponse(finalResp)
}

func printResponse(resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
