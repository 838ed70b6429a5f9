package pagescrape

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// TabSelectors describes how a particular page lays out its tab controls.
// Tab layouts are page specific; the defaults follow the WAI-ARIA tab pattern.
type TabSelectors struct {
	// Tab matches every tab control, in activation order.
	Tab string
	// Panel matches the panel that is visible after a tab is activated.
	Panel string
	// Wait is the pause between activating a tab and reading its panel.
	Wait time.Duration
}

// DefaultTabSelectors returns the ARIA convention: role="tab" controls and the
// role="tabpanel" element that is not hidden.
func DefaultTabSelectors() TabSelectors {
	return TabSelectors{
		Tab:   `[role="tab"]`,
		Panel: `[role="tabpanel"]:not([hidden])`,
		Wait:  time.Second,
	}
}

// tabDriver is the browser surface tab extraction needs.
type tabDriver interface {
	// Count returns how many elements match selector.
	Count(selector string) (int, error)
	// Activate clicks the i-th element matching selector and returns its label.
	// found is false when the element no longer exists.
	Activate(selector string, i int) (label string, found bool, err error)
	// PanelText returns the rendered text of the first element matching
	// selector, or "" when there is none.
	PanelText(selector string) (string, error)
	// Wait pauses for d.
	Wait(d time.Duration) error
}

// extractTabs activates every tab in turn and records the panel it reveals.
// It never fails: pages without tabs yield an empty slice, and a driver error
// stops extraction with whatever was collected so far.
func extractTabs(drv tabDriver, sel TabSelectors, log *zap.Logger) []TabContent {
	tabs := []TabContent{}

	n, err := drv.Count(sel.Tab)
	if err != nil {
		log.Debug("tab lookup failed", zap.String("selector", sel.Tab), zap.Error(err))
		return tabs
	}
	if n == 0 {
		return tabs
	}
	log.Debug("tabs found", zap.Int("count", n))

	// Tab lists are re-queried on every step because activation may re-render them.
	for i := 0; i < n; i++ {
		label, found, err := drv.Activate(sel.Tab, i)
		if err != nil {
			log.Debug("tab activation failed", zap.Int("index", i), zap.Error(err))
			break
		}
		if !found {
			continue
		}
		if err := drv.Wait(sel.Wait); err != nil {
			break
		}
		text, err := drv.PanelText(sel.Panel)
		if err != nil {
			log.Debug("tab panel unreadable", zap.Int("index", i), zap.Error(err))
			break
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		tabs = append(tabs, TabContent{Label: collapseSpace(label), Text: text})
	}
	return tabs
}

// chromeTabs drives tabs in a live chromedp tab. ctx must come from
// session.tabContext.
type chromeTabs struct {
	ctx context.Context
}

func (c chromeTabs) Count(selector string) (int, error) {
	var n int
	expr := fmt.Sprintf(`document.querySelectorAll(%s).length`, jsString(selector))
	if err := chromedp.Run(c.ctx, chromedp.Evaluate(expr, &n)); err != nil {
		return 0, err
	}
	return n, nil
}

func (c chromeTabs) Activate(selector string, i int) (string, bool, error) {
	var res struct {
		Found bool   `json:"found"`
		Label string `json:"label"`
	}
	expr := fmt.Sprintf(`(() => {
		const tab = document.querySelectorAll(%s)[%d];
		if (!tab) return {found: false, label: ""};
		tab.scrollIntoView({block: "center"});
		tab.click();
		return {found: true, label: (tab.innerText || tab.textContent || "").trim()};
	})()`, jsString(selector), i)
	if err := chromedp.Run(c.ctx, chromedp.Evaluate(expr, &res)); err != nil {
		return "", false, err
	}
	return res.Label, res.Found, nil
}

func (c chromeTabs) PanelText(selector string) (string, error) {
	var text string
	expr := fmt.Sprintf(`(() => {
		const panel = document.querySelector(%s);
		return panel ? (panel.innerText || "") : "";
	})()`, jsString(selector))
	if err := chromedp.Run(c.ctx, chromedp.Evaluate(expr, &text)); err != nil {
		return "", err
	}
	return text, nil
}

func (c chromeTabs) Wait(d time.Duration) error {
	if d <= 0 {
		return nil
	}
	return chromedp.Run(c.ctx, chromedp.Sleep(d))
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
