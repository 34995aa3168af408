package httpx

type PlaceOrderRequest struct {
	Customer  CustomerDTO   `json:"customer"`
	Beverages []BeverageDTO `json:"beverages"`
}

// CustomerDTO identifies who is ordering. ID is optional: returning
// customers send the ID from an earlier order so their history stays
// grouped; first-timers leave it empty and get one generated.
type CustomerDTO struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// BeverageDTO carries one requested beverage. Type selects the variant
// ("coffee", "tea" or "smoothie"); the remaining fields apply only to the
// variants that use them.
type BeverageDTO struct {
	Type       string   `json:"type"`
	Size       string   `json:"size"`
	ExtraShots int      `json:"extra_shots,omitempty"`
	Variety    string   `json:"variety,omitempty"`
	Fruits     []string `json:"fruits,omitempty"`
}

type OrderResponse struct {
	ID         string              `json:"id"`
	Customer   CustomerResponse    `json:"customer"`
	Status     string              `json:"status"`
	Total      float64             `json:"total"`
	PaymentRef string              `json:"payment_ref,omitempty"`
	Items      []OrderItemResponse `json:"items"`
	CreatedAt  string              `json:"created_at"`
	UpdatedAt  string              `json:"updated_at"`
}

type CustomerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type OrderItemResponse struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Subtotal    float64 `json:"subtotal"`
}

type OrderEventResponse struct {
	Event   string `json:"event"`
	Status  string `json:"status"`
	Detail  string `json:"detail,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
	At      string `json:"at"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
