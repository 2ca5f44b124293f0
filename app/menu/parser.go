package menu

import (
	"errors"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrNoDocument is returned when the parser is handed a nil document. This is
// the only fatal parse condition; missing markup inside a real document
// degrades to empty sections instead.
var ErrNoDocument = errors.New("menu: no document to parse")

const (
	locationHeaderSelector  = ".singlepage-content-padding h1"
	mealContainerSelector   = "div[id*='_menu']"
	mealContainerIDSuffix   = "_menu"
	contentContainerID      = "#content_text"
	categoryHeadingSelector = "h2.menu_category_name"
	itemSelector            = "li.lightbox-nutrition"
)

// ParseOptions control parser behavior per location.
type ParseOptions struct {
	// PrimaryMealsOnly drops meal sections whose label is not one of
	// Breakfast, Lunch or Dinner.
	PrimaryMealsOnly bool
}

type Parser struct {
	titleCaser cases.Caser
}

func NewParser() *Parser {
	return &Parser{
		titleCaser: cases.Title(language.English),
	}
}

// Run extracts a DayMenu from a rendered menu page. The location heading
// reported by the page wins over the caller-supplied locationName when
// present; the caller's name is only a fallback for pages without the
// heading. Categories and items keep document order. Items are collected by
// a linear next-sibling walk from each category heading up to the next one,
// so nested or malformed markup can mis-attribute items; that mirrors the
// page's flat layout and is a known limitation.
func (p *Parser) Run(doc *goquery.Document, dateLabel, locationName string, opts ParseOptions) (*DayMenu, error) {
	if doc == nil {
		return nil, ErrNoDocument
	}

	dayMenu := &DayMenu{
		Date:     dateLabel,
		Location: locationName,
	}

	if header := strings.TrimSpace(doc.Find(locationHeaderSelector).First().Text()); header != "" {
		dayMenu.Location = header
	}

	doc.Find(mealContainerSelector).Each(func(_ int, mealDiv *goquery.Selection) {
		mealName := p.mealLabel(mealDiv)
		if opts.PrimaryMealsOnly && !PrimaryMealTypes[mealName] {
			return
		}

		meal := Meal{Name: mealName}

		content := mealDiv.Find(contentContainerID).First()
		if content.Length() == 0 {
			// Meal section without a content container: keep the
			// empty meal entry and flag the menu as degraded.
			dayMenu.Degraded = true
			dayMenu.Meals = append(dayMenu.Meals, meal)
			return
		}

		content.Find(categoryHeadingSelector).Each(func(_ int, heading *goquery.Selection) {
			category := Category{Name: strings.TrimSpace(heading.Text())}

			heading.NextUntil(categoryHeadingSelector).Each(func(_ int, sibling *goquery.Selection) {
				if !sibling.Is(itemSelector) {
					return
				}
				link := sibling.Find("a").First()
				if link.Length() == 0 {
					return
				}
				category.Items = append(category.Items, p.parseItem(link))
			})

			meal.Categories = append(meal.Categories, category)
		})

		dayMenu.Meals = append(dayMenu.Meals, meal)
	})

	return dayMenu, nil
}

// mealLabel prefers the first h2 inside the meal container and falls back to
// the container id with its "_menu" suffix removed, title-cased.
func (p *Parser) mealLabel(mealDiv *goquery.Selection) string {
	if heading := strings.TrimSpace(mealDiv.Find("h2").First().Text()); heading != "" {
		return heading
	}

	id, _ := mealDiv.Attr("id")
	token := strings.TrimSuffix(id, mealContainerIDSuffix)
	return p.titleCaser.String(token)
}

func (p *Parser) parseItem(link *goquery.Selection) Item {
	return Item{
		Name: strings.TrimSpace(link.Text()),
		Nutrition: NutritionRecord{
			Calories:        link.AttrOr("data-calories", ""),
			CaloriesFromFat: link.AttrOr("data-calories-from-fat", ""),
			TotalFat:        link.AttrOr("data-total-fat", ""),
			SatFat:          link.AttrOr("data-sat-fat", ""),
			TransFat:        link.AttrOr("data-trans-fat", ""),
			Cholesterol:     link.AttrOr("data-cholesterol", ""),
			Sodium:          link.AttrOr("data-sodium", ""),
			TotalCarb:       link.AttrOr("data-total-carb", ""),
			DietaryFiber:    link.AttrOr("data-dietary-fiber", ""),
			Sugars:          link.AttrOr("data-sugars", ""),
			Protein:         link.AttrOr("data-protein", ""),
			ServingSize:     link.AttrOr("data-serving-size", ""),
		},
		Allergens:     link.AttrOr("data-allergens", ""),
		Diet:          link.AttrOr("data-clean-diet-str", ""),
		CarbonRating:  link.AttrOr("data-carbon-list", ""),
		Healthfulness: link.AttrOr("data-healthfulness", ""),
		Ingredients:   link.AttrOr("data-ingredient-list", ""),
	}
}
