package fits

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	// BlockSize is the FITS record length. Both the header and data
	// sections of a file are padded out to a multiple of this size.
	BlockSize = 2880

	cardSize      = 80
	cardsPerBlock = BlockSize / cardSize
)

// Card is a single 80-byte header entry. Cards parsed from a file keep
// their raw image so that untouched cards are rewritten byte-for-byte;
// modifying a card through the Header discards the image and the card is
// reformatted on write.
type Card struct {
	Name     string
	Value    string
	IsString bool
	Comment  string

	raw string
}

// Header is an ordered mapping of card name to value for a single HDU.
//
// Headers are parsed fresh on every file open and are never shared
// between readers and writers. Code that needs a modified header first
// calls Clone and mutates the copy.
type Header struct {
	cards []Card
	index map[string]int
}

func NewHeader() *Header {
	return &Header{index: map[string]int{}}
}

// Clone returns a deep copy of the header. Modifications to the copy do
// not affect the original.
func (h *Header) Clone() *Header {
	c := &Header{
		cards: make([]Card, len(h.cards)),
		index: make(map[string]int, len(h.index)),
	}
	copy(c.cards, h.cards)
	for k, v := range h.index {
		c.index[k] = v
	}
	return c
}

func (h *Header) Get(name string) (Card, bool) {
	i, ok := h.index[name]
	if !ok {
		return Card{}, false
	}
	return h.cards[i], true
}

func (h *Header) Has(name string) bool {
	_, ok := h.index[name]
	return ok
}

// Int returns the named card's value as an integer.
func (h *Header) Int(name string) (int, error) {
	card, ok := h.Get(name)
	if !ok {
		return 0, &CardError{ErrFormat, name}
	}

	v, err := strconv.Atoi(card.Value)
	if err != nil {
		return 0, &CardError{ErrFormat, name}
	}
	return v, nil
}

// Float returns the named card's value as a float64. Fortran style 'D'
// exponents are accepted.
func (h *Header) Float(name string) (float64, error) {
	card, ok := h.Get(name)
	if !ok {
		return 0, &CardError{ErrFormat, name}
	}

	v, err := strconv.ParseFloat(strings.Replace(card.Value, "D", "E", 1), 64)
	if err != nil {
		return 0, &CardError{ErrFormat, name}
	}
	return v, nil
}

// Str returns the named card's value as a string with trailing padding
// removed.
func (h *Header) Str(name string) (string, error) {
	card, ok := h.Get(name)
	if !ok {
		return "", &CardError{ErrFormat, name}
	}
	return strings.TrimRight(card.Value, " "), nil
}

func (h *Header) set(card Card) {
	if i, ok := h.index[card.Name]; ok {
		h.cards[i] = card
		return
	}

	h.index[card.Name] = len(h.cards)
	h.cards = append(h.cards, card)
}

func (h *Header) SetInt(name string, v int) {
	h.set(Card{Name: name, Value: strconv.Itoa(v)})
}

// SetFloat stores v in the canonical uppercase exponent text form used
// throughout survey headers.
func (h *Header) SetFloat(name string, v float64) {
	h.set(Card{Name: name, Value: FormatFloat(v)})
}

func (h *Header) SetString(name, v string) {
	h.set(Card{Name: name, Value: v, IsString: true})
}

// SetLogical stores a FITS logical (T/F) card.
func (h *Header) SetLogical(name string, v bool) {
	value := "F"
	if v {
		value = "T"
	}
	h.set(Card{Name: name, Value: value})
}

// SetCard stores an existing card's value under name, preserving its
// type and comment. The raw image is discarded so the card is
// reformatted on write.
func (h *Header) SetCard(name string, card Card) {
	h.set(Card{Name: name, Value: card.Value, IsString: card.IsString, Comment: card.Comment})
}

// Delete removes the named card. Removing a card that does not exist is
// a no-op.
func (h *Header) Delete(name string) {
	i, ok := h.index[name]
	if !ok {
		return
	}

	h.cards = append(h.cards[:i], h.cards[i+1:]...)
	delete(h.index, name)
	for k, v := range h.index {
		if v > i {
			h.index[k] = v - 1
		}
	}
}

// AddHistory appends a HISTORY commentary card.
func (h *Header) AddHistory(text string) {
	raw := fmt.Sprintf("%-80.80s", "HISTORY "+text)
	h.cards = append(h.cards, Card{Name: "HISTORY", raw: raw})
}

// FormatFloat renders a float the way survey headers carry CRVAL/CDELT
// style cards: shortest round-trip form with an uppercase exponent.
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'G', -1, 64)
	if !strings.ContainsAny(s, ".E") {
		s += "."
	}
	return s
}

func parseCard(line string) Card {
	name := strings.TrimSpace(line[:8])

	if line[8:10] != "= " {
		// Commentary card (HISTORY, COMMENT, blank): kept verbatim.
		return Card{Name: name, raw: line}
	}

	rest := line[10:]

	if strings.HasPrefix(strings.TrimSpace(rest), "'") {
		value, comment := parseStringValue(strings.TrimSpace(rest))
		return Card{Name: name, Value: value, IsString: true, Comment: comment, raw: line}
	}

	comment := ""
	if i := strings.Index(rest, "/"); i != -1 {
		comment = strings.TrimSpace(rest[i+1:])
		rest = rest[:i]
	}

	return Card{Name: name, Value: strings.TrimSpace(rest), Comment: comment, raw: line}
}

// parseStringValue unquotes a FITS string value. Doubled single quotes
// escape a literal quote.
func parseStringValue(s string) (value, comment string) {
	buf := strings.Builder{}

	state := 0
	for i, char := range s {
		quote := char == '\''
		switch state {
		case 0:
			state = 1
		case 1:
			if quote {
				state = 2
			} else {
				buf.WriteRune(char)
			}
		case 2:
			if quote {
				buf.WriteRune(char)
				state = 1
			} else {
				rest := s[i:]
				if j := strings.Index(rest, "/"); j != -1 {
					comment = strings.TrimSpace(rest[j+1:])
				}
				return strings.TrimRight(buf.String(), " "), comment
			}
		}
	}
	return strings.TrimRight(buf.String(), " "), ""
}

// ParseHeader reads header blocks from r until the END card and returns
// the parsed header along with the offset of the data section, which is
// always a multiple of BlockSize.
func ParseHeader(r io.Reader) (*Header, int64, error) {
	h := NewHeader()
	block := make([]byte, BlockSize)

	offset := int64(0)
	for {
		if _, err := io.ReadFull(r, block); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil, 0, fmt.Errorf("fits: header: missing END card: %w", ErrFormat)
			}
			return nil, 0, fmt.Errorf("fits: header: %w", err)
		}
		offset += BlockSize

		for i := 0; i < cardsPerBlock; i++ {
			line := string(block[i*cardSize : (i+1)*cardSize])

			if strings.TrimSpace(line[:8]) == "END" {
				return h, offset, nil
			}

			card := parseCard(line)
			if card.Name == "" && card.Value == "" {
				continue
			}

			if card.Value == "" && card.raw != "" {
				// Commentary cards stack instead of replacing each other.
				h.cards = append(h.cards, card)
				continue
			}

			h.set(card)
		}
	}
}

// ParseHeaderFile opens the named file and parses its primary header.
func ParseHeaderFile(name string) (*Header, int64, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, 0, fmt.Errorf("fits: header: %w", err)
	}
	defer file.Close()

	return ParseHeader(file)
}

func formatCard(card Card) string {
	if card.raw != "" {
		return card.raw
	}

	var line string
	if card.IsString {
		quoted := "'" + fmt.Sprintf("%-8s", strings.ReplaceAll(card.Value, "'", "''")) + "'"
		line = fmt.Sprintf("%-8s= %-20s", card.Name, quoted)
	} else {
		line = fmt.Sprintf("%-8s= %20s", card.Name, card.Value)
	}

	if card.Comment != "" {
		line += " / " + card.Comment
	}

	return fmt.Sprintf("%-80.80s", line)
}

// WriteTo serializes the header, END card included, padded with blank
// cards out to a multiple of BlockSize.
func (h *Header) WriteTo(w io.Writer) (int64, error) {
	buf := strings.Builder{}
	for _, card := range h.cards {
		buf.WriteString(formatCard(card))
	}
	buf.WriteString(fmt.Sprintf("%-80s", "END"))

	for buf.Len()%BlockSize != 0 {
		buf.WriteString(fmt.Sprintf("%80s", ""))
	}

	n, err := io.WriteString(w, buf.String())
	if err != nil {
		return int64(n), fmt.Errorf("fits: header: write: %w", err)
	}
	return int64(n), nil
}

// Size returns the serialized byte size of the header, END card and
// block padding included.
func (h *Header) Size() int64 {
	cards := len(h.cards) + 1 // END
	blocks := (cards + cardsPerBlock - 1) / cardsPerBlock
	return int64(blocks) * BlockSize
}
