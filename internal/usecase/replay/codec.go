// Package replay implements the line-oriented order-log encoding and a
// runner that applies decoded logs to a book. Record kinds are keyed by
// a leading tag character:
//
//	A <side> <type> <price> <quantity> <id>
//	M <id> <side> <price> <quantity>
//	C <id>
//	R <allCount> <bidCount> <askCount>
//
// The matching core never sees this encoding; it consumes the decoded
// instructions only.
package replay

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	orderbookv1 "github.com/DesmondYau/Orderbook/internal/domain/orderbook/v1"
	replayv1 "github.com/DesmondYau/Orderbook/internal/domain/replay/v1"
)

// Parse decodes an order log. The trailing result record is optional;
// nil is returned when the log does not carry one.
func Parse(r io.Reader) ([]replayv1.Instruction, *replayv1.ExpectedResult, error) {
	var instructions []replayv1.Instruction
	var result *replayv1.ExpectedResult

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "A":
			instruction, err := parseAdd(fields)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			instructions = append(instructions, instruction)
		case "M":
			instruction, err := parseModify(fields)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			instructions = append(instructions, instruction)
		case "C":
			instruction, err := parseCancel(fields)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			instructions = append(instructions, instruction)
		case "R":
			parsed, err := parseResult(fields)
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			result = parsed
		default:
			return nil, nil, fmt.Errorf("line %d: unknown record tag %q", lineNo, fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}

	return instructions, result, nil
}

// ParseFile decodes the order log at path.
func ParseFile(path string) ([]replayv1.Instruction, *replayv1.ExpectedResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return Parse(f)
}

func parseAdd(fields []string) (replayv1.Instruction, error) {
	if len(fields) != 6 {
		return replayv1.Instruction{}, fmt.Errorf("add record needs 6 fields, got %d", len(fields))
	}

	side, err := parseSide(fields[1])
	if err != nil {
		return replayv1.Instruction{}, err
	}
	orderType, err := parseOrderType(fields[2])
	if err != nil {
		return replayv1.Instruction{}, err
	}
	price, err := parsePrice(fields[3])
	if err != nil {
		return replayv1.Instruction{}, err
	}
	quantity, err := parseQuantity(fields[4])
	if err != nil {
		return replayv1.Instruction{}, err
	}
	orderID, err := parseOrderID(fields[5])
	if err != nil {
		return replayv1.Instruction{}, err
	}

	return replayv1.Instruction{
		Action:    replayv1.ActionAdd,
		Side:      side,
		OrderType: orderType,
		Price:     price,
		Quantity:  quantity,
		OrderID:   orderID,
	}, nil
}

func parseModify(fields []string) (replayv1.Instruction, error) {
	if len(fields) != 5 {
		return replayv1.Instruction{}, fmt.Errorf("modify record needs 5 fields, got %d", len(fields))
	}

	orderID, err := parseOrderID(fields[1])
	if err != nil {
		return replayv1.Instruction{}, err
	}
	side, err := parseSide(fields[2])
	if err != nil {
		return replayv1.Instruction{}, err
	}
	price, err := parsePrice(fields[3])
	if err != nil {
		return replayv1.Instruction{}, err
	}
	quantity, err := parseQuantity(fields[4])
	if err != nil {
		return replayv1.Instruction{}, err
	}

	return replayv1.Instruction{
		Action:   replayv1.ActionModify,
		OrderID:  orderID,
		Side:     side,
		Price:    price,
		Quantity: quantity,
	}, nil
}

func parseCancel(fields []string) (replayv1.Instruction, error) {
	if len(fields) != 2 {
		return replayv1.Instruction{}, fmt.Errorf("cancel record needs 2 fields, got %d", len(fields))
	}

	orderID, err := parseOrderID(fields[1])
	if err != nil {
		return replayv1.Instruction{}, err
	}

	return replayv1.Instruction{
		Action:  replayv1.ActionCancel,
		OrderID: orderID,
	}, nil
}

func parseResult(fields []string) (*replayv1.ExpectedResult, error) {
	if len(fields) != 4 {
		return nil, fmt.Errorf("result record needs 4 fields, got %d", len(fields))
	}

	counts := make([]int, 3)
	for i, field := range fields[1:] {
		value, err := strconv.Atoi(field)
		if err != nil || value < 0 {
			return nil, fmt.Errorf("invalid count %q", field)
		}
		counts[i] = value
	}

	return &replayv1.ExpectedResult{
		AllCount: counts[0],
		BidCount: counts[1],
		AskCount: counts[2],
	}, nil
}

func parseSide(s string) (orderbookv1.Side, error) {
	switch s {
	case "B":
		return orderbookv1.SideBuy, nil
	case "S":
		return orderbookv1.SideSell, nil
	default:
		return "", fmt.Errorf("unknown side %q", s)
	}
}

func parseOrderType(s string) (orderbookv1.OrderType, error) {
	switch orderbookv1.OrderType(s) {
	case orderbookv1.OrderTypeMarket,
		orderbookv1.OrderTypeGoodTillCancel,
		orderbookv1.OrderTypeFillAndKill:
		return orderbookv1.OrderType(s), nil
	default:
		return "", fmt.Errorf("unknown order type %q", s)
	}
}

func parsePrice(s string) (orderbookv1.Price, error) {
	value, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	return orderbookv1.Price(value), nil
}

func parseQuantity(s string) (orderbookv1.Quantity, error) {
	value, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	return orderbookv1.Quantity(value), nil
}

func parseOrderID(s string) (orderbookv1.OrderID, error) {
	value, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid order id %q", s)
	}
	return value, nil
}

// encodeSide renders a side as its order-log tag.
func encodeSide(side orderbookv1.Side) string {
	if side == orderbookv1.SideBuy {
		return "B"
	}
	return "S"
}

// EncodeAdd renders an add record.
func EncodeAdd(side orderbookv1.Side, orderType orderbookv1.OrderType, price orderbookv1.Price, quantity orderbookv1.Quantity, orderID orderbookv1.OrderID) string {
	return fmt.Sprintf("A %s %s %d %d %d", encodeSide(side), orderType, price, quantity, orderID)
}

// EncodeModify renders a modify record.
func EncodeModify(orderID orderbookv1.OrderID, side orderbookv1.Side, price orderbookv1.Price, quantity orderbookv1.Quantity) string {
	return fmt.Sprintf("M %d %s %d %d", orderID, encodeSide(side), price, quantity)
}

// EncodeCancel renders a cancel record.
func EncodeCancel(orderID orderbookv1.OrderID) string {
	return fmt.Sprintf("C %d", orderID)
}

// EncodeResult renders the trailing result record.
func EncodeResult(result replayv1.ExpectedResult) string {
	return fmt.Sprintf("R %d %d %d", result.AllCount, result.BidCount, result.AskCount)
}
