/*
Copyright 2025 Creator Platform Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"github.com/harukitakahashi812/creator-platform/config"
)

// Credentials is the login pair for the third-party site. A nil value is
// legal; the run then fails at the login stage with remediation steps
// instead of the caller guessing.
type Credentials struct {
	Email    string
	Password string
}

// Product carries the fields the wizard needs.
type Product struct {
	Title       string
	Description string
	Price       string
}

// Driver runs one publish attempt against the product-creation wizard.
type Driver interface {
	PublishProduct(ctx context.Context, creds *Credentials, product Product) (string, error)
}

// ChromeDriver drives a real Chrome via the DevTools protocol. One browser
// session per invocation, torn down on every path.
type ChromeDriver struct {
	cfg config.GumroadConfig
}

const desktopUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

func NewChromeDriver(cfg config.GumroadConfig) *ChromeDriver {
	return &ChromeDriver{cfg: cfg}
}

// PublishProduct walks the stage machine and returns the captured product
// URL. Errors are always *StageError.
func (d *ChromeDriver) PublishProduct(ctx context.Context, creds *Credentials, product Product) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", d.cfg.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if d.cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(d.cfg.ChromePath))
	}
	if d.cfg.ProfileDir != "" {
		opts = append(opts, chromedp.UserDataDir(d.cfg.ProfileDir))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// Headless Chrome announces itself in the user agent string, which the
	// site treats as a bot signal.
	if err := d.step(browserCtx, StageInit, chromedp.ActionFunc(func(ctx context.Context) error {
		return emulation.SetUserAgentOverride(desktopUserAgent).
			WithAcceptLanguage("en-US,en").
			Do(ctx)
	})); err != nil {
		return "", err
	}

	if err := d.login(browserCtx, creds); err != nil {
		return "", err
	}
	if err := d.fillProductForm(browserCtx, product); err != nil {
		return "", err
	}
	if err := d.clickThrough(browserCtx, StageCustomize, nextCustomizeLocator); err != nil {
		return "", err
	}
	if err := d.fillDescription(browserCtx, product.Description); err != nil {
		return "", err
	}
	if err := d.clickThrough(browserCtx, StageSave, saveContinueLocator); err != nil {
		return "", err
	}
	if err := d.clickThrough(browserCtx, StagePublish, publishContinueLocator); err != nil {
		return "", err
	}
	return d.captureURL(browserCtx)
}

// stepContext bounds a single wizard interaction. Every DevTools call the
// driver makes runs under one of these, so a wedged renderer ends the run
// with a deadline instead of hanging it.
func (d *ChromeDriver) stepContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d.cfg.StepTimeout())
}

// step runs actions under the per-step timeout and tags failures.
func (d *ChromeDriver) step(ctx context.Context, stage Stage, actions ...chromedp.Action) error {
	stepCtx, cancel := d.stepContext(ctx)
	defer cancel()
	if err := chromedp.Run(stepCtx, actions...); err != nil {
		return failAt(stage, err)
	}
	return nil
}

// login navigates to the product-creation entry point and, when redirected
// to the login page, authenticates with the stored credentials.
func (d *ChromeDriver) login(ctx context.Context, creds *Credentials) error {
	if err := d.step(ctx, StageInit,
		chromedp.Navigate(d.cfg.NewProductURL),
		chromedp.WaitReady("body"),
	); err != nil {
		return err
	}

	var location string
	if err := d.step(ctx, StageInit, chromedp.Location(&location)); err != nil {
		return err
	}
	if !onLoginPage(location) {
		return nil // session cookie still valid
	}

	if creds == nil || creds.Email == "" || creds.Password == "" {
		return failAt(StageLogin, errors.New("no stored Gumroad credentials for this user"))
	}

	emailSel, err := d.firstSelector(ctx, StageLogin, emailFieldLocator)
	if err != nil {
		return err
	}
	passwordSel, err := d.firstSelector(ctx, StageLogin, passwordFieldLocator)
	if err != nil {
		return err
	}
	if err := d.step(ctx, StageLogin,
		chromedp.SendKeys(emailSel, creds.Email, chromedp.ByQuery),
		chromedp.SendKeys(passwordSel, creds.Password, chromedp.ByQuery),
	); err != nil {
		return err
	}
	if err := d.clickLocator(ctx, StageLogin, loginSubmitLocator); err != nil {
		return err
	}
	if err := d.waitNavigationAway(ctx, StageLogin, location); err != nil {
		return err
	}

	// Make sure we actually left the login page before declaring victory.
	var after string
	if err := d.step(ctx, StageLogin, chromedp.Location(&after)); err != nil {
		return err
	}
	if onLoginPage(after) {
		return failAt(StageLogin, errors.New("still on login page, credentials rejected or challenge shown"))
	}
	if !strings.Contains(after, "/products/new") {
		return d.step(ctx, StageLogin,
			chromedp.Navigate(d.cfg.NewProductURL),
			chromedp.WaitReady("body"),
		)
	}
	return nil
}

func onLoginPage(location string) bool {
	return strings.Contains(location, "/login") || strings.Contains(location, "signin")
}

// fillProductForm enters the name and price on the first wizard page and
// picks the digital product type by its visible label.
func (d *ChromeDriver) fillProductForm(ctx context.Context, product Product) error {
	nameSel, err := d.firstSelector(ctx, StageProductForm, productNameLocator)
	if err != nil {
		return err
	}
	if err := d.step(ctx, StageProductForm,
		chromedp.SendKeys(nameSel, product.Title, chromedp.ByQuery),
	); err != nil {
		return err
	}

	// Product type first; some layouts only reveal the price field after
	// a type is selected. A miss here is not fatal, the default type on a
	// fresh form is already the digital one.
	if err := d.clickLocator(ctx, StageProductForm, digitalProductLocator); err != nil {
		logrus.Warnf("digital product option not found, keeping the preselected type: %v", err)
	}

	priceSel, err := d.firstSelector(ctx, StageProductForm, productPriceLocator)
	if err != nil {
		return err
	}
	return d.step(ctx, StageProductForm,
		chromedp.SendKeys(priceSel, product.Price, chromedp.ByQuery),
	)
}

// fillDescription sets the content of the largest editable region on the
// customize page. Tallest rendered region wins; the wizard renders several
// small editable fields but only one description editor.
func (d *ChromeDriver) fillDescription(ctx context.Context, description string) error {
	encoded, err := json.Marshal(description)
	if err != nil {
		return failAt(StageDescription, err)
	}
	script := fmt.Sprintf(`(() => {
		const els = Array.from(document.querySelectorAll('[contenteditable="true"], textarea, [role="textbox"]'));
		if (!els.length) return false;
		let best = null, bestHeight = -1;
		for (const el of els) {
			const h = el.getBoundingClientRect().height;
			if (h > bestHeight) { best = el; bestHeight = h; }
		}
		best.focus();
		if (best.tagName === 'TEXTAREA') {
			best.value = %s;
		} else {
			best.innerText = %s;
		}
		best.dispatchEvent(new Event('input', { bubbles: true }));
		return true;
	})()`, encoded, encoded)

	var ok bool
	if err := d.step(ctx, StageDescription, chromedp.Evaluate(script, &ok)); err != nil {
		return err
	}
	if !ok {
		return failAt(StageDescription, errors.New("no editable description region on page"))
	}
	return nil
}

// clickThrough clicks a navigation control located by text and waits for
// the page to move on.
func (d *ChromeDriver) clickThrough(ctx context.Context, stage Stage, loc Locator) error {
	var before string
	if err := d.step(ctx, stage, chromedp.Location(&before)); err != nil {
		return err
	}
	if err := d.clickLocator(ctx, stage, loc); err != nil {
		return err
	}
	return d.waitNavigationAway(ctx, stage, before)
}

const interactiveTextsScript = `Array.from(
	document.querySelectorAll('button, a, [role="button"], [role="radio"], label, input[type="submit"], input[type="button"]')
).map(el => (el.innerText || el.value || '').trim())`

// clickLocator resolves a locator against the live page and clicks the
// match. CSS candidates are tried first, then the text scan.
func (d *ChromeDriver) clickLocator(ctx context.Context, stage Stage, loc Locator) error {
	for _, sel := range loc.Selectors {
		found, err := d.selectorExists(ctx, sel)
		if err != nil {
			return failAt(stage, err)
		}
		if found {
			return d.step(ctx, stage, chromedp.Click(sel, chromedp.ByQuery))
		}
	}
	if len(loc.TextAll) == 0 {
		return failAt(stage, errors.New("no selector candidate matched"))
	}

	var texts []string
	if err := d.step(ctx, stage, chromedp.Evaluate(interactiveTextsScript, &texts)); err != nil {
		return err
	}
	idx := loc.matchText(texts)
	if idx < 0 {
		return failAt(stage, fmt.Errorf("no visible element matching %v", loc.TextAll))
	}

	clickScript := fmt.Sprintf(`(() => {
		const targets = Array.from(
			document.querySelectorAll('button, a, [role="button"], [role="radio"], label, input[type="submit"], input[type="button"]')
		);
		if (%d >= targets.length) return false;
		targets[%d].click();
		return true;
	})()`, idx, idx)

	var ok bool
	if err := d.step(ctx, stage, chromedp.Evaluate(clickScript, &ok)); err != nil {
		return err
	}
	if !ok {
		return failAt(stage, errors.New("element disappeared between scan and click"))
	}
	return nil
}

// firstSelector returns the first CSS candidate present on the page.
func (d *ChromeDriver) firstSelector(ctx context.Context, stage Stage, loc Locator) (string, error) {
	for _, sel := range loc.Selectors {
		found, err := d.selectorExists(ctx, sel)
		if err != nil {
			return "", failAt(stage, err)
		}
		if found {
			return sel, nil
		}
	}
	return "", failAt(stage, fmt.Errorf("none of %d selector candidates matched", len(loc.Selectors)))
}

// selectorExists checks for a CSS candidate under the per-step timeout so
// a wedged renderer cannot hang the run.
func (d *ChromeDriver) selectorExists(ctx context.Context, sel string) (bool, error) {
	encoded, err := json.Marshal(sel)
	if err != nil {
		return false, err
	}
	stepCtx, cancel := d.stepContext(ctx)
	defer cancel()
	var found bool
	err = chromedp.Run(stepCtx, chromedp.Evaluate(fmt.Sprintf(`document.querySelector(%s) !== null`, encoded), &found))
	return found, err
}

// waitNavigationAway polls until the page URL differs from prev.
func (d *ChromeDriver) waitNavigationAway(ctx context.Context, stage Stage, prev string) error {
	encoded, err := json.Marshal(prev)
	if err != nil {
		return failAt(stage, err)
	}
	var moved bool
	return d.step(ctx, stage,
		chromedp.Poll(fmt.Sprintf(`window.location.href !== %s`, encoded), &moved),
		chromedp.WaitReady("body"),
	)
}

// captureURL runs the four capture strategies against the final page.
func (d *ChromeDriver) captureURL(ctx context.Context) (string, error) {
	var (
		inputValues []string
		anchorHrefs []string
		pageText    string
		currentURL  string
	)
	if err := d.step(ctx, StageURLCapture,
		chromedp.Evaluate(`Array.from(document.querySelectorAll('input')).map(el => el.value || '')`, &inputValues),
		chromedp.Evaluate(`Array.from(document.querySelectorAll('a[href]')).map(el => el.href)`, &anchorHrefs),
		chromedp.Evaluate(`document.body.innerText`, &pageText),
		chromedp.Location(&currentURL),
	); err != nil {
		return "", err
	}

	url := captureProductURL(d.cfg.ProductHost, inputValues, anchorHrefs, pageText, currentURL)
	if url == "" {
		return "", failAt(StageURLCapture, errors.New("published product URL not found on page"))
	}
	return url, nil
}
