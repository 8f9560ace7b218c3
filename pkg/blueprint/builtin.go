package blueprint

import "time"

const welcomeMarkup = `<div data-layout="section">
  <h1 class="heading">Welcome, {{first_name}}!</h1>
  <p class="text">{{intro}}</p>
  <a class="button" href="{{cta_url}}">{{cta_label}}</a>
</div>
<div data-layout="section">
  <p class="text muted">{{footer}}</p>
</div>`

const newsletterMarkup = `<div data-layout="section">
  <img src="{{hero_image}}" alt="{{title}}" width="600">
  <h1 class="heading">{{title}}</h1>
</div>
<div data-layout="columns">
  <div data-layout="column">
    <h2 class="heading">{{left_title}}</h2>
    <p class="text">{{left_body}}</p>
  </div>
  <div data-layout="column">
    <h2 class="heading">{{right_title}}</h2>
    <p class="text">{{right_body}}</p>
  </div>
</div>
<div data-layout="section">
  <p class="text muted"><a href="{{unsubscribe_url}}">Unsubscribe</a></p>
</div>`

const receiptMarkup = `<div data-layout="section">
  <h1 class="heading">Receipt {{order_number}}</h1>
  <p class="text">Thanks for your purchase, {{customer_name}}.</p>
  {{line_items}}
  <p class="text"><strong>Total: {{total}}</strong></p>
  <a class="button" href="{{order_url}}">View order</a>
</div>`

// BuiltIns returns the stock welcome, newsletter and receipt blueprints.
func BuiltIns() []TemplateBlueprint {
	epoch := time.Unix(0, 0).UTC()
	out := []TemplateBlueprint{
		{
			ID:          "welcome",
			Name:        "Welcome",
			Description: "Greeting for new sign-ups with a single call to action",
			Category:    "onboarding",
			Tags:        []string{"welcome", "transactional"},
			Markup:      welcomeMarkup,
			Slots: []Slot{
				{Name: "first_name", Label: "First name", Type: SlotText, Default: "there"},
				{Name: "intro", Label: "Intro", Type: SlotText, Required: true},
				{Name: "cta_url", Label: "Button link", Type: SlotURL, Required: true},
				{Name: "cta_label", Label: "Button label", Type: SlotText, Default: "Get started"},
				{Name: "footer", Label: "Footer", Type: SlotHTML},
			},
		},
		{
			ID:          "newsletter",
			Name:        "Newsletter",
			Description: "Hero image followed by a two column story layout",
			Category:    "marketing",
			Tags:        []string{"newsletter", "marketing", "columns"},
			Markup:      newsletterMarkup,
			Slots: []Slot{
				{Name: "hero_image", Label: "Hero image", Type: SlotImage, Required: true},
				{Name: "title", Label: "Title", Type: SlotText, Required: true},
				{Name: "left_title", Label: "Left title", Type: SlotText},
				{Name: "left_body", Label: "Left body", Type: SlotHTML},
				{Name: "right_title", Label: "Right title", Type: SlotText},
				{Name: "right_body", Label: "Right body", Type: SlotHTML},
				{Name: "unsubscribe_url", Label: "Unsubscribe link", Type: SlotURL, Required: true},
			},
		},
		{
			ID:          "receipt",
			Name:        "Receipt",
			Description: "Order confirmation with line items and total",
			Category:    "transactional",
			Tags:        []string{"receipt", "order", "transactional"},
			Markup:      receiptMarkup,
			Slots: []Slot{
				{Name: "order_number", Label: "Order number", Type: SlotText, Required: true},
				{Name: "customer_name", Label: "Customer name", Type: SlotText, Default: "customer"},
				{Name: "line_items", Label: "Line items", Type: SlotHTML},
				{Name: "total", Label: "Total", Type: SlotText, Required: true},
				{Name: "order_url", Label: "Order link", Type: SlotURL, Required: true},
			},
		},
	}
	for i := range out {
		out[i].IsBuiltIn = true
		out[i].CreatedAt = epoch
		out[i].UpdatedAt = epoch
	}
	return out
}
