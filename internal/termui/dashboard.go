package termui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

type Dashboard struct {
	app      app
	tree     *tview.TreeView
	logsView *tview.TextView
	logs     string
}

func NewDashboard(app app, appName, builderName, baseName string) *Dashboard {
	d := &Dashboard{
		app:      app,
		tree:     initTree(appName, builderName, baseName),
		logsView: initLogsView(),
	}

	imagesView := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(d.tree, 0, 1, false)

	imagesView.
		SetBorder(true).
		SetTitleAlign(tview.AlignLeft).
		SetTitle("| [::b]images[::-] |").
		SetBackgroundColor(backgroundColor)

	screen := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(imagesView, 7, 0, false).
		AddItem(d.logsView, 0, 1, true)

	d.app.SetRoot(screen, true)
	return d
}

func (d *Dashboard) Handle(txt string) {
	d.app.QueueUpdateDraw(func() {
		d.logs = d.logs + txt + "\n"
		d.logsView.SetText(tview.TranslateANSI(d.logs))
	})
}

func initTree(appName, builderName, baseName string) *tview.TreeView {
	var (
		appImage  = tview.NewTreeNode(fmt.Sprintf("app: [white::b]%s", appName)).SetColor(tcell.ColorDimGray)
		baseImage = tview.NewTreeNode(fmt.Sprintf(" base: [white::b]%s", baseName)).SetColor(tcell.ColorDimGray)
		builder   = tview.NewTreeNode(fmt.Sprintf(" builder: [white::b]%s", builderName)).SetColor(tcell.ColorDimGray)
	)

	appImage.AddChild(baseImage)
	appImage.AddChild(builder)

	tree := tview.NewTreeView()
	tree.
		SetRoot(appImage).
		SetGraphics(true).
		SetGraphicsColor(tcell.ColorMediumTurquoise).
		SetTitleAlign(tview.AlignLeft).
		SetBorderPadding(1, 0, 4, 0).
		SetBackgroundColor(backgroundColor)

	return tree
}

func initLogsView() *tview.TextView {
	logsView := tview.NewTextView()
	logsView.SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft).
		SetBorderPadding(1, 1, 3, 1).
		SetTitleAlign(tview.AlignLeft).
		SetBackgroundColor(backgroundColor)

	return logsView
}
