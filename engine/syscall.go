package engine

import (
	"cmp"
	"fmt"
)

// SystemCall identifies a built-in operation of the core.
type SystemCall int

// SystemCall is one of these values.
const (
	SysUnify SystemCall = iota
	SysUnifyWithOccursCheck
	SysCompare
	SysVariant
	SysTermVariables
	SysCopyTerm
	SysCopyTermNat
	SysSkipMaxList
	SysLength
	SysGetAttrVarQueueDelimiter
	SysGetAttrVarQueueBeyond
	SysEnqueueAttributedVar
	SysEnqueueAttributeGoal
	SysFetchAttributeGoals
	SysCloneAttributeGoals
	SysClearAttributeGoals
	SysResetAttrVarState
	SysGetAttributedVariableList
	SysDeleteAttribute
	SysDeleteHeadAttribute
	SysRedoAttrVarBinding
	SysLiftedHeapLength
	SysCopyToLiftedHeap
	SysGetLiftedHeapFromOffset
	SysGetLiftedHeapFromOffsetDiff
	SysTruncateLiftedHeapTo
	SysTruncateIfNoLiftedHeapGrowth
	SysTruncateIfNoLiftedHeapGrowthDiff
	SysStoreGlobalVar
	SysStoreGlobalVarWithOffset
	SysFetchGlobalVar
	SysFetchGlobalVarWithOffset
	SysResetGlobalVarAtKey
	SysResetGlobalVarAtOffset
	SysSetBall
	SysGetBall
	SysEraseBall
	SysUnwindStack
	SysInstallNewBlock
	SysGetCurrentBlock
	SysResetBlock
	SysCleanUpBlock
	SysCheckCutPoint
	SysGetBValue
	SysGetCutPoint
	SysInferenceLevel
	SysCut
	SysInstallSCCCleaner
	SysGetSCCCleaner
	SysRestoreCutPolicy
	SysInstallInferenceCounter
	SysRemoveInferenceCounter
	SysRemoveCallPolicyCheck
	SysGetContinuationChunk
	SysCallContinuation
	SysResetContinuationMarker
	SysPointsToContinuationResetMarker
	SysUnwindEnvironments
	SysGetNextDBRef
	SysGetNextOpDBRef
	SysLookupDBRef
	SysLookupOpDBRef
	SysCreatePartialString
	SysIsPartialString
	SysPartialStringTail
	SysCharCode
	SysAtomLength
	SysAtomChars
	SysAtomCodes
	SysCharsToNumber
	SysCodesToNumber
	SysNumberToChars
	SysNumberToCodes
	SysGetDoubleQuotes
	SysSetDoubleQuotes

	sysLen
)

type sysInfo struct {
	name  string
	arity int
}

var sysTable = [...]sysInfo{
	SysUnify:                            {"=", 2},
	SysUnifyWithOccursCheck:             {"unify_with_occurs_check", 2},
	SysCompare:                          {"compare", 3},
	SysVariant:                          {"=@=", 2},
	SysTermVariables:                    {"term_variables", 2},
	SysCopyTerm:                         {"copy_term", 2},
	SysCopyTermNat:                      {"copy_term_nat", 2},
	SysSkipMaxList:                      {"$skip_max_list", 4},
	SysLength:                           {"length", 2},
	SysGetAttrVarQueueDelimiter:         {"$get_attr_var_queue_delim", 1},
	SysGetAttrVarQueueBeyond:            {"$get_attr_var_queue_beyond", 2},
	SysEnqueueAttributedVar:             {"$enqueue_attr_var", 1},
	SysEnqueueAttributeGoal:             {"$enqueue_attribute_goal", 1},
	SysFetchAttributeGoals:              {"$fetch_attribute_goals", 1},
	SysCloneAttributeGoals:              {"$clone_attribute_goals", 1},
	SysClearAttributeGoals:              {"$clear_attribute_goals", 0},
	SysResetAttrVarState:                {"$reset_attr_var_state", 0},
	SysGetAttributedVariableList:        {"$get_attr_list", 2},
	SysDeleteAttribute:                  {"$del_attr_non_head", 1},
	SysDeleteHeadAttribute:              {"$del_attr_head", 1},
	SysRedoAttrVarBinding:               {"$redo_attr_var_binding", 2},
	SysLiftedHeapLength:                 {"$lh_length", 1},
	SysCopyToLiftedHeap:                 {"$copy_to_lh", 2},
	SysGetLiftedHeapFromOffset:          {"$get_lh_from_offset", 2},
	SysGetLiftedHeapFromOffsetDiff:      {"$get_lh_from_offset_diff", 3},
	SysTruncateLiftedHeapTo:             {"$truncate_lh_to", 1},
	SysTruncateIfNoLiftedHeapGrowth:     {"$truncate_if_no_lh_growth", 1},
	SysTruncateIfNoLiftedHeapGrowthDiff: {"$truncate_if_no_lh_growth_diff", 1},
	SysStoreGlobalVar:                   {"nb_setval", 2},
	SysStoreGlobalVarWithOffset:         {"b_setval", 2},
	SysFetchGlobalVar:                   {"nb_getval", 2},
	SysFetchGlobalVarWithOffset:         {"$fetch_global_var_with_offset", 3},
	SysResetGlobalVarAtKey:              {"$reset_global_var_at_key", 1},
	SysResetGlobalVarAtOffset:           {"$reset_global_var_at_offset", 3},
	SysSetBall:                          {"$set_ball", 1},
	SysGetBall:                          {"$get_ball", 1},
	SysEraseBall:                        {"$erase_ball", 0},
	SysUnwindStack:                      {"$unwind_stack", 0},
	SysInstallNewBlock:                  {"$install_new_block", 1},
	SysGetCurrentBlock:                  {"$get_current_block", 1},
	SysResetBlock:                       {"$reset_block", 1},
	SysCleanUpBlock:                     {"$clean_up_block", 1},
	SysCheckCutPoint:                    {"$check_cp", 1},
	SysGetBValue:                        {"$get_b_value", 1},
	SysGetCutPoint:                      {"$get_cp", 1},
	SysInferenceLevel:                   {"$inference_level", 2},
	SysCut:                              {"$cut", 1},
	SysInstallSCCCleaner:                {"$install_scc_cleaner", 2},
	SysGetSCCCleaner:                    {"$get_scc_cleaner", 1},
	SysRestoreCutPolicy:                 {"$restore_cut_policy", 0},
	SysInstallInferenceCounter:          {"$install_inference_counter", 3},
	SysRemoveInferenceCounter:           {"$remove_inference_counter", 2},
	SysRemoveCallPolicyCheck:            {"$remove_call_policy_check", 1},
	SysGetContinuationChunk:             {"$get_cont_chunk", 3},
	SysCallContinuation:                 {"$call_continuation", 1},
	SysResetContinuationMarker:          {"$reset_cont_marker", 0},
	SysPointsToContinuationResetMarker:  {"$points_to_cont_reset_marker", 1},
	SysUnwindEnvironments:               {"$unwind_environments", 0},
	SysGetNextDBRef:                     {"$get_next_db_ref", 2},
	SysGetNextOpDBRef:                   {"$get_next_op_db_ref", 2},
	SysLookupDBRef:                      {"$lookup_db_ref", 3},
	SysLookupOpDBRef:                    {"$lookup_op_db_ref", 4},
	SysCreatePartialString:              {"$create_partial_string", 3},
	SysIsPartialString:                  {"$is_partial_string", 1},
	SysPartialStringTail:                {"$partial_string_tail", 2},
	SysCharCode:                         {"char_code", 2},
	SysAtomLength:                       {"atom_length", 2},
	SysAtomChars:                        {"atom_chars", 2},
	SysAtomCodes:                        {"atom_codes", 2},
	SysCharsToNumber:                    {"$chars_to_number", 2},
	SysCodesToNumber:                    {"$codes_to_number", 2},
	SysNumberToChars:                    {"$number_to_chars", 2},
	SysNumberToCodes:                    {"$number_to_codes", 2},
	SysGetDoubleQuotes:                  {"$get_double_quotes", 1},
	SysSetDoubleQuotes:                  {"$set_double_quotes", 1},
}

var sysByName = func() map[string]SystemCall {
	m := make(map[string]SystemCall, sysLen)
	for i, info := range sysTable {
		m[info.name] = SystemCall(i)
	}
	return m
}()

func (s SystemCall) String() string {
	if s < 0 || s >= sysLen {
		return fmt.Sprintf("SystemCall(%d)", int(s))
	}
	return sysTable[s].name
}

// Arity returns the number of argument registers the system call reads.
func (s SystemCall) Arity() int {
	return sysTable[s].arity
}

// ParseSystemCall returns the system call named name.
func ParseSystemCall(name string) (SystemCall, bool) {
	s, ok := sysByName[name]
	return s, ok
}

var orderAtoms = [...]Atom{"<", "=", ">"}

// Call runs the system call with the argument registers X1..Xn.
// A failure is reported through Fail and an error is an exception to throw.
func (vm *VM) Call(s SystemCall) error {
	if s < 0 || s >= sysLen {
		vm.logger().WithField("syscall", int(s)).Warn("unknown system call")
		return vm.ExistenceError(ObjectTypeProcedure, Atom(s.String()))
	}
	if n := s.Arity(); len(vm.Registers) < n {
		return fmt.Errorf("%s: want %d registers, got %d", s, n, len(vm.Registers))
	}
	vm.logger().WithField("syscall", s).Debug("call")

	x := vm.X
	switch s {
	case SysUnify:
		vm.Unify(x(1), x(2))
	case SysUnifyWithOccursCheck:
		vm.UnifyWithOccursCheck(x(1), x(2))
	case SysCompare:
		o := vm.Compare(x(2), x(3))
		vm.Unify(x(1), orderAtoms[cmp.Compare(o, 0)+1])
	case SysVariant:
		if !vm.Variant(x(1), x(2)) {
			vm.Fail = true
		}
	case SysTermVariables:
		vm.TermVariables(x(1), x(2))
	case SysCopyTerm:
		vm.CopyTerm(x(1), x(2), DeepCopy)
	case SysCopyTermNat:
		vm.CopyTerm(x(1), x(2), StripAttributes)
	case SysSkipMaxList:
		return vm.SkipMaxList(x(1), x(2), x(3), x(4))
	case SysLength:
		return vm.Length(x(1), x(2))
	case SysGetAttrVarQueueDelimiter:
		vm.GetAttrVarQueueDelimiter(x(1))
	case SysGetAttrVarQueueBeyond:
		vm.GetAttrVarQueueBeyond(x(1), x(2))
	case SysEnqueueAttributedVar:
		vm.EnqueueAttributedVar(x(1))
	case SysEnqueueAttributeGoal:
		vm.EnqueueAttributeGoal(x(1))
	case SysFetchAttributeGoals:
		vm.FetchAttributeGoals(x(1))
	case SysCloneAttributeGoals:
		vm.CloneAttributeGoals(x(1))
	case SysClearAttributeGoals:
		vm.ClearAttributeGoals()
	case SysResetAttrVarState:
		vm.ResetAttrVarState()
	case SysGetAttributedVariableList:
		vm.GetAttributedVariableList(x(1), x(2))
	case SysDeleteAttribute:
		vm.DeleteAttribute(x(1))
	case SysDeleteHeadAttribute:
		vm.DeleteHeadAttribute(x(1))
	case SysRedoAttrVarBinding:
		vm.RedoAttrVarBinding(x(1), x(2))
	case SysLiftedHeapLength:
		vm.LiftedHeapLength(x(1))
	case SysCopyToLiftedHeap:
		vm.CopyToLiftedHeap(x(1), x(2))
	case SysGetLiftedHeapFromOffset:
		return vm.GetLiftedHeapFromOffset(x(1), x(2))
	case SysGetLiftedHeapFromOffsetDiff:
		return vm.GetLiftedHeapFromOffsetDiff(x(1), x(2), x(3))
	case SysTruncateLiftedHeapTo:
		vm.TruncateLiftedHeapTo(x(1))
	case SysTruncateIfNoLiftedHeapGrowth:
		vm.TruncateIfNoLiftedHeapGrowth(x(1))
	case SysTruncateIfNoLiftedHeapGrowthDiff:
		vm.TruncateIfNoLiftedHeapGrowthDiff(x(1))
	case SysStoreGlobalVar:
		return vm.StoreGlobalVar(x(1), x(2))
	case SysStoreGlobalVarWithOffset:
		return vm.StoreGlobalVarWithOffset(x(1), x(2))
	case SysFetchGlobalVar:
		return vm.FetchGlobalVar(x(1), x(2))
	case SysFetchGlobalVarWithOffset:
		return vm.FetchGlobalVarWithOffset(x(1), x(2), x(3))
	case SysResetGlobalVarAtKey:
		return vm.ResetGlobalVarAtKey(x(1))
	case SysResetGlobalVarAtOffset:
		return vm.ResetGlobalVarAtOffset(x(1), x(2), x(3))
	case SysSetBall:
		vm.SetBall(x(1))
	case SysGetBall:
		return vm.GetBall(x(1))
	case SysEraseBall:
		vm.EraseBall()
	case SysUnwindStack:
		vm.UnwindStack()
	case SysInstallNewBlock:
		vm.InstallNewBlock(x(1))
	case SysGetCurrentBlock:
		vm.GetCurrentBlock(x(1))
	case SysResetBlock:
		vm.ResetBlock(x(1))
	case SysCleanUpBlock:
		vm.CleanUpBlock(x(1))
	case SysCheckCutPoint:
		vm.CheckCutPoint(x(1))
	case SysGetBValue:
		vm.GetBValue(x(1))
	case SysGetCutPoint:
		vm.GetCutPoint(x(1))
	case SysInferenceLevel:
		vm.InferenceLevel(x(1), x(2))
	case SysCut:
		vm.Cleanup = vm.Cut(x(1))
	case SysInstallSCCCleaner:
		vm.InstallSCCCleaner(x(1), x(2))
	case SysGetSCCCleaner:
		vm.GetSCCCleaner(x(1))
	case SysRestoreCutPolicy:
		vm.RestoreCutPolicy()
	case SysInstallInferenceCounter:
		return vm.InstallInferenceCounter(x(1), x(2), x(3))
	case SysRemoveInferenceCounter:
		vm.RemoveInferenceCounter(x(1), x(2))
	case SysRemoveCallPolicyCheck:
		vm.RemoveCallPolicyCheck(x(1))
	case SysGetContinuationChunk:
		vm.GetContinuationChunk(x(1), x(2), x(3))
	case SysCallContinuation:
		return vm.CallContinuation(x(1), false)
	case SysResetContinuationMarker:
		vm.ResetContinuationMarker()
	case SysPointsToContinuationResetMarker:
		vm.PointsToContinuationResetMarker(x(1))
	case SysUnwindEnvironments:
		vm.UnwindEnvironments()
	case SysGetNextDBRef:
		vm.GetNextDBRef(x(1), x(2))
	case SysGetNextOpDBRef:
		vm.GetNextOpDBRef(x(1), x(2))
	case SysLookupDBRef:
		vm.LookupDBRef(x(1), x(2), x(3))
	case SysLookupOpDBRef:
		vm.LookupOpDBRef(x(1), x(2), x(3), x(4))
	case SysCreatePartialString:
		return vm.CreatePartialString(x(1), x(2), x(3))
	case SysIsPartialString:
		vm.IsPartialString(x(1))
	case SysPartialStringTail:
		vm.PartialStringTail(x(1), x(2))
	case SysCharCode:
		return vm.CharCode(x(1), x(2))
	case SysAtomLength:
		return vm.AtomLength(x(1), x(2))
	case SysAtomChars:
		return vm.AtomChars(x(1), x(2))
	case SysAtomCodes:
		return vm.AtomCodes(x(1), x(2))
	case SysCharsToNumber:
		return vm.CharsToNumber(x(1), x(2))
	case SysCodesToNumber:
		return vm.CodesToNumber(x(1), x(2))
	case SysNumberToChars:
		return vm.NumberToChars(x(1), x(2))
	case SysNumberToCodes:
		return vm.NumberToCodes(x(1), x(2))
	case SysGetDoubleQuotes:
		vm.GetDoubleQuotes(x(1))
	case SysSetDoubleQuotes:
		vm.SetDoubleQuotes(x(1))
	}
	return nil
}
