package mutation

import (
	"math"
	"testing"

	"github.com/bethropolis/deck/internal/model"
	"github.com/bethropolis/deck/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slideWith(ids ...string) model.Slide {
	s := model.Slide{ID: "s1", Background: model.ColorBackground("#ffffff")}
	for _, id := range ids {
		s.Elements = append(s.Elements, model.NewText(id))
	}
	return s
}

func deck(slideIDs ...string) model.Presentation {
	p := model.Presentation{Title: "t"}
	for _, id := range slideIDs {
		p.Slides = append(p.Slides, model.Slide{ID: id, Elements: []model.Element{model.NewText(id + "-e")}})
	}
	if len(slideIDs) > 0 {
		p.CurrentSlideID = slideIDs[0]
	}
	return p
}

func TestZOrderExample(t *testing.T) {
	s := slideWith("A", "B", "C")

	front := BringToFront(s, []string{"B"})
	assert.Equal(t, []string{"A", "C", "B"}, front.ElementIDs())

	back := SendToBack(front, []string{"C"})
	assert.Equal(t, []string{"C", "A", "B"}, back.ElementIDs())

	// Inputs are untouched.
	assert.Equal(t, []string{"A", "B", "C"}, s.ElementIDs())
	assert.Equal(t, []string{"A", "C", "B"}, front.ElementIDs())
}

func TestArrangePreservesRelativeOrder(t *testing.T) {
	s := slideWith("A", "B", "C", "D")
	assert.Equal(t, []string{"B", "D", "A", "C"}, BringToFront(s, []string{"C", "A"}).ElementIDs())
	assert.Equal(t, []string{"B", "D", "A", "C"}, SendToBack(s, []string{"D", "B"}).ElementIDs())
}

func TestArrangeOneStep(t *testing.T) {
	s := slideWith("A", "B", "C", "D")
	assert.Equal(t, []string{"A", "C", "B", "D"}, BringForward(s, []string{"B"}).ElementIDs())
	assert.Equal(t, []string{"C", "A", "B", "D"}, BringForward(s, []string{"A", "B"}).ElementIDs())
	assert.Equal(t, []string{"A", "C", "B", "D"}, SendBackward(s, []string{"C"}).ElementIDs())
	assert.Equal(t, s.ElementIDs(), BringForward(s, []string{"D"}).ElementIDs(), "already on top")
	assert.Equal(t, s.ElementIDs(), SendBackward(s, []string{"A"}).ElementIDs(), "already at the bottom")
}

func TestArrangeUnknownIDsIsNoOp(t *testing.T) {
	s := slideWith("A", "B")
	assert.True(t, s.Equal(BringToFront(s, []string{"zz"})))
	assert.True(t, s.Equal(SendToBack(s, nil)))
}

func TestDuplicateElementsOffset(t *testing.T) {
	s := slideWith("A")
	s.Elements[0].Position = types.Position{X: 10, Y: 10}
	ids := model.NewCounterSource("dup")

	next, newIDs := DuplicateElements(s, []string{"A"}, ids, DefaultDuplicateOffset)
	require.Equal(t, []string{"dup-1"}, newIDs)
	require.Len(t, next.Elements, 2)

	orig, _ := next.Element("A")
	copyEl, _ := next.Element("dup-1")
	assert.Equal(t, types.Position{X: 10, Y: 10}, orig.Position)
	assert.Equal(t, types.Position{X: 25, Y: 25}, copyEl.Position)
	assert.Equal(t, "dup-1", next.Elements[1].ID, "copy is topmost")

	// The copy does not share props with the original.
	assert.NotSame(t, orig.Text, copyEl.Text)
	assert.Len(t, s.Elements, 1)
}

func TestDuplicateElementsUnknown(t *testing.T) {
	s := slideWith("A")
	next, newIDs := DuplicateElements(s, []string{"nope"}, model.NewCounterSource("x"), 15)
	assert.Nil(t, newIDs)
	assert.True(t, s.Equal(next))
}

func TestDuplicateSlideInsertsAfterSource(t *testing.T) {
	p := deck("s1", "s2", "s3")
	next, newID := DuplicateSlide(p, "s2", model.NewCounterSource("n"))

	require.NotEmpty(t, newID)
	assert.Equal(t, []string{"s1", "s2", newID, "s3"}, next.SlideIDs())

	dup, _ := next.Slide(newID)
	src, _ := next.Slide("s2")
	require.Len(t, dup.Elements, 1)
	assert.NotEqual(t, src.Elements[0].ID, dup.Elements[0].ID)
	assert.Equal(t, src.Elements[0].Text.Content, dup.Elements[0].Text.Content)
	assert.Len(t, p.Slides, 3)
	require.NoError(t, model.Validate(next))
}

func TestRemoveSlideFallsBackToFirst(t *testing.T) {
	p := deck("s1", "s2")
	p.CurrentSlideID = "s2"
	p.SelectedSlideIDs = []string{"s2"}

	next := RemoveSlide(p, "s2")
	assert.Equal(t, []string{"s1"}, next.SlideIDs())
	assert.Equal(t, "s1", next.CurrentSlideID)
	assert.Empty(t, next.SelectedSlideIDs)

	empty := RemoveSlide(next, "s1")
	assert.Empty(t, empty.Slides)
	assert.Equal(t, "", empty.CurrentSlideID)

	assert.Equal(t, []string{"s1", "s2"}, p.SlideIDs())
}

func TestReorderSlides(t *testing.T) {
	p := deck("a", "b", "c")

	assert.Equal(t, []string{"c", "a", "b"}, ReorderSlides(p, []string{"c", "a", "b"}).SlideIDs())
	assert.True(t, p.Equal(ReorderSlides(p, []string{"a", "b", "c"})), "same order")
	assert.True(t, p.Equal(ReorderSlides(p, []string{"a", "b"})), "not a permutation")
	assert.True(t, p.Equal(ReorderSlides(p, []string{"a", "a", "b"})), "duplicate ids")
	assert.True(t, p.Equal(ReorderSlides(p, []string{"a", "b", "x"})), "unknown id")
}

func TestMoveSlide(t *testing.T) {
	p := deck("a", "b", "c")
	assert.Equal(t, []string{"b", "c", "a"}, MoveSlide(p, "a", 10).SlideIDs())
	assert.Equal(t, []string{"c", "a", "b"}, MoveSlide(p, "c", 0).SlideIDs())
	assert.True(t, p.Equal(MoveSlide(p, "b", 1)))
}

func TestAddSlideRejectsDuplicateID(t *testing.T) {
	p := deck("a")
	next := AddSlide(p, model.Slide{ID: "a"})
	assert.Len(t, next.Slides, 1)

	next = AddSlide(p, model.Slide{ID: "b"})
	assert.Equal(t, []string{"a", "b"}, next.SlideIDs())
}

func TestAppendDoesNotAliasSnapshots(t *testing.T) {
	base := slideWith("A")
	base.Elements = append(make([]model.Element, 0, 8), base.Elements...)

	left := AddText(base, "L")
	right := AddText(base, "R")

	assert.Equal(t, []string{"A", "L"}, left.ElementIDs())
	assert.Equal(t, []string{"A", "R"}, right.ElementIDs())
}

func TestLockedBackgroundRejectsRecolor(t *testing.T) {
	s := slideWith()
	s.Background = model.ColorBackground("#111111").WithLock(true)

	assert.True(t, s.Equal(ChangeBackground(s, model.ColorBackground("#ff0000"))))

	unlocked := slideWith()
	changed := ChangeBackground(unlocked, model.ColorBackground("#ff0000").WithLock(true))
	assert.Equal(t, "#ff0000", changed.Background.Value)
	assert.False(t, changed.Background.Locked, "plain background changes never lock")
}

func TestApplyThemeLocksEverySlide(t *testing.T) {
	p := deck("a", "b")
	themed := ApplyTheme(p, model.ColorBackground("#b91c1c"))
	for _, s := range themed.Slides {
		assert.True(t, s.Background.Locked)
		assert.Equal(t, "#b91c1c", s.Background.Value)
	}
	assert.True(t, themed.Equal(ApplyTheme(themed, model.ColorBackground("#b91c1c"))))
	assert.False(t, p.Slides[0].Background.Locked)
}

func TestTextFieldUpdates(t *testing.T) {
	s := slideWith("T")
	s = SetTextColor(s, "T", "#ff0000")
	s = SetTextSize(s, "T", 48)
	s = SetTextAlignHorizontal(s, "T", model.AlignCenter)
	s = SetTextAlignVertical(s, "T", model.AlignBottom)
	s = SetLineHeight(s, "T", 1.5)
	s = ToggleTextStyle(s, "T", model.StyleBold)
	s = ToggleTextStyle(s, "T", model.StyleItalic)
	s = ToggleTextStyle(s, "T", model.StyleItalic)
	s = SetFont(s, "T", "Georgia")
	s = SetTextContent(s, "T", "Hello")
	s = SetTextBackground(s, "T", "#eeeeee")

	e, _ := s.Element("T")
	assert.Equal(t, model.TextProps{
		Content:         "Hello",
		FontFamily:      "Georgia",
		FontSize:        48,
		Color:           "#ff0000",
		HorizontalAlign: model.AlignCenter,
		VerticalAlign:   model.AlignBottom,
		LineHeight:      1.5,
		Bold:            true,
		BackgroundColor: "#eeeeee",
	}, *e.Text)
}

func TestFieldUpdatesAreNoOpsOnMismatch(t *testing.T) {
	s := slideWith("T")
	s = AddShape(s, "S", model.ShapeStar)

	assert.True(t, s.Equal(SetTextColor(s, "missing", "#fff")))
	assert.True(t, s.Equal(SetShapeFill(s, "T", "#fff")), "fill on a text element")
	assert.True(t, s.Equal(SetTextColor(s, "S", "#fff")), "text colour on a shape")
	assert.True(t, s.Equal(SetTextSize(s, "T", 0)))
	assert.True(t, s.Equal(SetShapeStrokeWidth(s, "S", -1)))
	assert.True(t, s.Equal(SetImageSource(s, "T", "x.png")))
}

func TestShapeUpdatesLeaveInputAlone(t *testing.T) {
	s := AddShape(slideWith(), "S", model.ShapeRectangle)
	next := SetShapeStrokeWidth(SetShapeStroke(SetShapeFill(s, "S", "#00ff00"), "S", "#0000ff"), "S", 4)

	got, _ := next.Element("S")
	assert.Equal(t, "#00ff00", got.Shape.Fill)
	assert.Equal(t, "#0000ff", got.Shape.StrokeColor)
	assert.Equal(t, 4, got.Shape.StrokeWidth)

	orig, _ := s.Element("S")
	assert.Equal(t, "#3b82f6", orig.Shape.Fill)
}

func TestEffectsPassThrough(t *testing.T) {
	s := slideWith("T")
	shadow, _ := model.ShadowPreset("soft")
	s = SetShadow(s, "T", shadow)
	s = SetTextColor(s, "T", "#123456")

	e, _ := s.Element("T")
	require.NotNil(t, e.Effects.Shadow)
	assert.Equal(t, *shadow, *e.Effects.Shadow)

	cleared := SetShadow(s, "T", nil)
	e, _ = cleared.Element("T")
	assert.Nil(t, e.Effects.Shadow)
}

func TestMoveAndResize(t *testing.T) {
	s := slideWith("A", "B")
	moved := MoveElements(s, []string{"A", "B"}, 5, -5)
	for _, e := range moved.Elements {
		assert.Equal(t, types.Position{X: 105, Y: 95}, e.Position)
	}
	resized := ResizeElement(s, "A", types.Size{Width: -10, Height: 40})
	e, _ := resized.Element("A")
	assert.Equal(t, types.Size{Width: 1, Height: 40}, e.Size)
	assert.True(t, s.Equal(MoveElements(s, []string{"A"}, 0, 0)))
}

func TestNonFiniteGeometryIsIgnored(t *testing.T) {
	s := slideWith("A")
	assert.True(t, s.Equal(MoveElements(s, []string{"A"}, math.NaN(), 0)))
	assert.True(t, s.Equal(MoveElements(s, []string{"A"}, 0, math.Inf(1))))
	assert.True(t, s.Equal(ResizeElement(s, "A", types.Size{Width: math.NaN(), Height: 10})))
	assert.True(t, s.Equal(SetLineHeight(s, "A", math.NaN())))
	assert.True(t, s.Equal(SetLineHeight(s, "A", math.Inf(1))))

	far := MoveElements(s, []string{"A"}, math.MaxFloat64, 0)
	assert.True(t, far.Equal(MoveElements(far, []string{"A"}, math.MaxFloat64, 0)), "overflow keeps the position")
}

func TestRemoveElements(t *testing.T) {
	s := slideWith("A", "B", "C")
	assert.Equal(t, []string{"B"}, RemoveElements(s, []string{"A", "C"}).ElementIDs())
	assert.True(t, s.Equal(RemoveElements(s, []string{"Z"})))
	assert.Len(t, s.Elements, 3)
}

func TestIDUniquenessAfterManyOperations(t *testing.T) {
	ids := model.NewCounterSource("id")
	p := model.NewPresentation("t", ids)
	first := p.Slides[0].ID
	for i := 0; i < 10; i++ {
		p = UpdateSlide(p, first, func(s model.Slide) model.Slide { return AddText(s, ids.NewID()) })
		p = UpdateSlide(p, first, func(s model.Slide) model.Slide {
			next, _ := DuplicateElements(s, s.ElementIDs(), ids, DefaultDuplicateOffset)
			return next
		})
		p, _ = DuplicateSlide(p, first, ids)
	}
	require.NoError(t, model.Validate(p))
}
